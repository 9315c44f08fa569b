package mes

import (
	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/mes/internal/binary"
	"go.uber.org/zap"
)

// Encode flattens the script to the MES file format.
//
// Every instruction is written in order and its NewAddress recorded. Jump
// operands are then rewritten from the original address of their target to
// the target's new address; table0 is rebuilt from the OpMesJ instructions and
// table1 is written empty. The Args of the script are left untouched, only the
// output buffer is patched, so Encode may be called more than once.
func Encode(s *Script) ([]byte, error) {
	code := binary.NewWriter()

	for i := range s.Instructions {
		in := &s.Instructions[i]
		in.NewAddress = uint32(code.Len())
		code.Byte(in.Opcode)
		if IsString(in.Opcode) {
			code.WriteCString(in.Args)
		} else {
			code.WriteBytes(in.Args)
		}
	}

	// First instruction wins when two share an original address.
	relocated := make(map[uint32]uint32, len(s.Instructions))
	for _, in := range s.Instructions {
		if in.Synthetic {
			continue
		}
		if _, dup := relocated[in.Address]; !dup {
			relocated[in.Address] = in.NewAddress
		}
	}

	var table0 []uint32
	jumps := 0
	for _, in := range s.Instructions {
		switch {
		case IsJump(in.Opcode):
			target, ok := in.Word()
			if !ok {
				return nil, gserrors.New(gserrors.PhaseSave, gserrors.KindInvalidInput).
					Detail("jump at 0x%08X has %d operand bytes", in.Address, len(in.Args)).
					Build()
			}
			newTarget, ok := relocated[target]
			if !ok {
				return nil, gserrors.MissingJumpTarget(in.Address, target)
			}
			if err := code.PatchU32BE(int(in.NewAddress)+1, newTarget); err != nil {
				return nil, gserrors.Wrap(gserrors.PhaseSave, gserrors.KindInvariant, err, "patch jump operand")
			}
			jumps++
		case in.Opcode == OpMesJ:
			table0 = append(table0, in.NewAddress)
		}
	}

	out := binary.NewWriter()
	out.WriteU32LE(uint32(len(table0)))
	out.WriteU32LE(0)
	for _, off := range table0 {
		out.WriteU32LE(off)
	}
	out.WriteBytes(code.Bytes())

	Logger().Debug("encoded script",
		zap.Int("instructions", len(s.Instructions)),
		zap.Int("jumps", jumps),
		zap.Int("table0", len(table0)),
		zap.Int("bytes", out.Len()),
	)
	return out.Bytes(), nil
}
