package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	gsiscript "github.com/wippyai/gsi-script"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
)

// Disassemble writes one line per instruction:
//
//	AAAAAAAA: MNEMONIC[, operand]
//
// Word operands are shown as hex literals, string operands decoded
// and quoted.
func Disassemble(w io.Writer, s *mes.Script, codec gsiscript.StringCodec) error {
	bw := bufio.NewWriter(w)
	for _, in := range s.Instructions {
		operand, err := Operand(in, codec)
		if err != nil {
			return err
		}
		if operand == "" {
			fmt.Fprintf(bw, "%08X: %s\n", in.Address, mes.Mnemonic(in.Opcode))
		} else {
			fmt.Fprintf(bw, "%08X: %s, %s\n", in.Address, mes.Mnemonic(in.Opcode), operand)
		}
	}
	return bw.Flush()
}

// DisassembleRange writes the listing of instructions [lo, hi).
func DisassembleRange(w io.Writer, s *mes.Script, lo, hi int, codec gsiscript.StringCodec) error {
	part := &mes.Script{Instructions: s.Instructions[lo:hi]}
	return Disassemble(w, part, codec)
}

// Operand renders the operand of an instruction for a listing.
func Operand(in mes.Instruction, codec gsiscript.StringCodec) (string, error) {
	switch mes.ClassOf(in.Opcode) {
	case mes.ArgByte:
		if len(in.Args) == 0 {
			return "", nil
		}
		if in.Opcode == mes.OpEscape {
			switch in.Args[0] {
			case mes.EscNewline:
				return "NEWLINE", nil
			case mes.EscRuby:
				return "RUBY", nil
			}
		}
		return fmt.Sprintf("0x%02X", in.Args[0]), nil
	case mes.ArgWord:
		v, ok := in.Word()
		if !ok {
			return fmt.Sprintf("% X", in.Args), nil
		}
		return fmt.Sprintf("0x%08X", v), nil
	case mes.ArgString:
		text, err := codec.Decode(in.Opcode, in.Args)
		if err != nil {
			return "", err
		}
		return strconv.Quote(textcodec.Escape(text)), nil
	default:
		return "", nil
	}
}
