package mes

import "fmt"

// Opcodes of the MES instruction set.
const (
	OpRet    byte = 0x00 // return; also terminates a ruby reading run
	OpThrow  byte = 0x01
	OpLoad0  byte = 0x02
	OpLoad7  byte = 0x09
	OpMesZ   byte = 0x0A // push compressed message string
	OpMes    byte = 0x0B // push plain message string
	OpStore0 byte = 0x0C
	OpStore2 byte = 0x0E // store used after speaker and choice setup
	OpStore7 byte = 0x13
	OpJz     byte = 0x14 // conditional jump
	OpJmp    byte = 0x15 // unconditional jump
	OpUnk17  byte = 0x17
	OpUnk18  byte = 0x18
	OpMesJ   byte = 0x19 // text block start, address registered in table0
	OpJx2    byte = 0x1A
	OpSelJ   byte = 0x1B // selection block start
	OpEscape byte = 0x1C // escape sequence, one argument byte
	OpPushW  byte = 0x32 // push 4-byte word
	OpPushS  byte = 0x33 // push plain string
	OpAdd    byte = 0x34
	OpNe     byte = 0x43
)

// Escape sequence arguments carried by OpEscape.
const (
	EscNewline byte = 0x00
	EscRuby    byte = 0x01
)

// ArgClass describes how many operand bytes follow an opcode.
type ArgClass uint8

const (
	ArgInvalid ArgClass = iota // not part of the instruction set
	ArgNone                    // niladic
	ArgByte                    // one byte
	ArgWord                    // four bytes, big-endian
	ArgString                  // zero-terminated bytes
)

func (c ArgClass) String() string {
	switch c {
	case ArgNone:
		return "none"
	case ArgByte:
		return "byte"
	case ArgWord:
		return "word"
	case ArgString:
		return "string"
	default:
		return "invalid"
	}
}

var argClasses [256]ArgClass

var mnemonics = map[byte]string{
	0x00: "RET",
	0x01: "THROW",
	0x02: "LOAD0",
	0x03: "LOAD1",
	0x04: "LOAD2",
	0x05: "LOAD3",
	0x06: "LOAD4",
	0x07: "LOAD5",
	0x08: "LOAD6",
	0x09: "LOAD7",
	0x0A: "MESZ",
	0x0B: "MES",
	0x0C: "STORE0",
	0x0D: "STORE1",
	0x0E: "STORE2",
	0x0F: "STORE3",
	0x10: "STORE4",
	0x11: "STORE5",
	0x12: "STORE6",
	0x13: "STORE7",
	0x14: "JZ",
	0x15: "JMP",
	0x17: "UNK17",
	0x18: "UNK18",
	0x19: "MESJ",
	0x1A: "JX2",
	0x1B: "SELJ",
	0x1C: "ESCAPE",
	0x32: "PUSHW",
	0x33: "PUSHS",
	0x34: "ADD",
	0x35: "SUB",
	0x36: "MUL",
	0x37: "DIV",
	0x38: "MOD",
	0x39: "RAND",
	0x3A: "LAND",
	0x3B: "LOR",
	0x3C: "AND",
	0x3D: "OR",
	0x3E: "LT",
	0x3F: "GT",
	0x40: "LE",
	0x41: "GE",
	0x42: "EQ",
	0x43: "NE",
}

func init() {
	for op := OpRet; op <= OpLoad7; op++ {
		argClasses[op] = ArgNone
	}
	for op := OpStore0; op <= OpStore7; op++ {
		argClasses[op] = ArgNone
	}
	argClasses[OpUnk17] = ArgNone
	argClasses[OpUnk18] = ArgNone
	for op := OpAdd; op <= OpNe; op++ {
		argClasses[op] = ArgNone
	}
	for _, op := range []byte{OpMesZ, OpMes, OpPushS} {
		argClasses[op] = ArgString
	}
	for _, op := range []byte{OpJz, OpJmp, OpMesJ, OpJx2, OpSelJ, OpPushW} {
		argClasses[op] = ArgWord
	}
	argClasses[OpEscape] = ArgByte
}

// ClassOf returns the operand class of op.
func ClassOf(op byte) ArgClass {
	return argClasses[op]
}

// IsJump reports whether op carries a code address that must be relocated.
// OpMesJ is located through table0 instead and OpPushW is a literal.
func IsJump(op byte) bool {
	switch op {
	case OpJz, OpJmp, OpJx2, OpSelJ:
		return true
	}
	return false
}

// IsString reports whether op carries a zero-terminated string operand.
func IsString(op byte) bool {
	return argClasses[op] == ArgString
}

// Mnemonic returns the assembler name of op.
func Mnemonic(op byte) string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return fmt.Sprintf("UNK%02X", op)
}
