package disasm

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	gsiscript "github.com/wippyai/gsi-script"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
)

// ExportStrings writes every string operand as a bilingual pair keyed by
// instruction address:
//
//	◇AAAAAAAA◇original
//	◆AAAAAAAA◆original
//
// followed by a blank line. With filtered set, strings starting with a
// single-byte character other than a control character are skipped; those
// are file names and identifiers rather than text.
func ExportStrings(w io.Writer, s *mes.Script, codec gsiscript.StringCodec, filtered bool) error {
	bw := bufio.NewWriter(w)
	for _, in := range s.Instructions {
		if !in.IsText() {
			continue
		}
		text, err := codec.Decode(in.Opcode, in.Args)
		if err != nil {
			return err
		}
		if filtered && !isDialogue(text) {
			continue
		}
		esc := textcodec.Escape(text)
		fmt.Fprintf(bw, "◇%08X◇%s\n", in.Address, esc)
		fmt.Fprintf(bw, "◆%08X◆%s\n", in.Address, esc)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func isDialogue(text string) bool {
	if text == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text)
	if r >= 0x81 {
		return true
	}
	return r == '\n' || r == '\r' || r == '\t'
}
