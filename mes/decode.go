package mes

import (
	"bytes"
	"io"

	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/mes/internal/binary"
	"go.uber.org/zap"
)

// Parse decodes a MES file: the two table counts, table0, table1 and the code section.
func Parse(data []byte) (*Script, error) {
	r := binary.NewReader(bytes.NewReader(data))

	n0, err := r.ReadU32LE()
	if err != nil {
		return nil, truncated(r, "header", err)
	}
	n1, err := r.ReadU32LE()
	if err != nil {
		return nil, truncated(r, "header", err)
	}

	// Reject counts the remaining input cannot hold before allocating for them.
	if uint64(n0)*4+uint64(n1)*4 > uint64(r.Len()) {
		return nil, truncated(r, "offset tables", io.ErrUnexpectedEOF)
	}

	s := &Script{
		TextBlockOffsets: make([]uint32, 0, n0),
		ReservedOffsets:  make([]uint32, 0, n1),
	}
	for i := uint32(0); i < n0; i++ {
		v, err := r.ReadU32LE()
		if err != nil {
			return nil, truncated(r, "table0", err)
		}
		s.TextBlockOffsets = append(s.TextBlockOffsets, v)
	}
	for i := uint32(0); i < n1; i++ {
		v, err := r.ReadU32LE()
		if err != nil {
			return nil, truncated(r, "table1", err)
		}
		s.ReservedOffsets = append(s.ReservedOffsets, v)
	}

	code := data[r.Position():]
	s.Instructions, err = DecodeInstructions(code, s.TextBlockOffsets)
	if err != nil {
		return nil, err
	}

	Logger().Debug("parsed script",
		zap.Int("table0", len(s.TextBlockOffsets)),
		zap.Int("table1", len(s.ReservedOffsets)),
		zap.Int("instructions", len(s.Instructions)),
		zap.Int("code_bytes", len(code)),
	)
	return s, nil
}

// DecodeInstructions decodes a code section. Every OpMesJ address must be
// present in textOffsets.
func DecodeInstructions(code []byte, textOffsets []uint32) ([]Instruction, error) {
	known := make(map[uint32]struct{}, len(textOffsets))
	for _, off := range textOffsets {
		known[off] = struct{}{}
	}

	r := binary.NewReader(bytes.NewReader(code))
	// Roughly 3 bytes per instruction in practice
	instrs := make([]Instruction, 0, len(code)/3)

	for r.Len() > 0 {
		addr := uint32(r.Position())
		op, err := r.ReadByte()
		if err != nil {
			return nil, truncated(r, "opcode", err)
		}

		instr := Instruction{Address: addr, Opcode: op}

		switch ClassOf(op) {
		case ArgNone:
		case ArgByte:
			instr.Args, err = r.ReadBytes(1)
			if err != nil {
				return nil, truncated(r, "escape operand", err)
			}
		case ArgWord:
			if op == OpMesJ {
				if _, ok := known[addr]; !ok {
					return nil, gserrors.AddressTableMismatch(addr)
				}
			}
			instr.Args, err = r.ReadBytes(4)
			if err != nil {
				return nil, truncated(r, "word operand", err)
			}
		case ArgString:
			instr.Args, err = r.ReadCString()
			if err != nil {
				return nil, truncated(r, "string operand", err)
			}
		default:
			return nil, gserrors.UnknownOpcode(addr, op)
		}

		instrs = append(instrs, instr)
	}

	return instrs, nil
}

// truncated reports a read failure at the reader's position, keeping the
// section-tagged parse error as the cause.
func truncated(r *binary.Reader, section string, err error) error {
	return gserrors.Truncated(gserrors.PhaseRead, section, r.Position(), r.WrapError(section, err))
}
