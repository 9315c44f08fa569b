package mes

import (
	"encoding/binary"
)

// Instruction represents one decoded MES instruction.
type Instruction struct {
	Args       []byte // operand bytes; string operands exclude the terminator
	Address    uint32 // offset from the start of the code section
	NewAddress uint32 // offset assigned by Encode
	Opcode     byte
	Synthetic  bool // created by rebuild, has no original address
}

// NewInstruction creates a synthetic instruction for rebuilt text.
func NewInstruction(op byte, args []byte) Instruction {
	return Instruction{Opcode: op, Args: args, Synthetic: true}
}

// Size returns the encoded length of the instruction in bytes.
func (i Instruction) Size() int {
	n := 1 + len(i.Args)
	if IsString(i.Opcode) {
		n++
	}
	return n
}

// Word returns the logical value of a four-byte operand.
// The operand is stored big-endian, the reverse of the offset tables.
func (i Instruction) Word() (uint32, bool) {
	if ClassOf(i.Opcode) != ArgWord || len(i.Args) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(i.Args), true
}

// JumpTarget returns the code address a jump-class instruction refers to.
func (i Instruction) JumpTarget() (uint32, bool) {
	if !IsJump(i.Opcode) {
		return 0, false
	}
	return i.Word()
}

// EscapeArg returns the argument of an escape instruction.
func (i Instruction) EscapeArg() (byte, bool) {
	if i.Opcode != OpEscape || len(i.Args) != 1 {
		return 0, false
	}
	return i.Args[0], true
}

// IsText reports whether the instruction pushes a string.
func (i Instruction) IsText() bool {
	return IsString(i.Opcode)
}

// WordArgs encodes v as a big-endian four-byte operand.
func WordArgs(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
