package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	gsiscript "github.com/wippyai/gsi-script"
	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
)

// HeaderRule trails the commented header line of every translation record.
const HeaderRule = ";----------------------------------------------------"

// BlockText reconstructs the text of a block. Escape sequences become a
// line break or a {base:reading} ruby group; the speaker sector, if any,
// gives the character name.
func BlockText(s *mes.Script, b mes.Block, codec gsiscript.StringCodec) (character, body string, err error) {
	var sb strings.Builder
	seenSpeaker := false

	for _, sec := range b.Sectors {
		if !sec.Type.IsText() {
			continue
		}
		ins := s.SectorInstructions(sec)

		if sec.Type == mes.TextSpeaker {
			if seenSpeaker {
				return "", "", gserrors.New(gserrors.PhaseExport, gserrors.KindDuplicateSpeaker).
					Path(fmt.Sprintf("block %04d", b.Index)).
					Detail("second speaker sector at instruction %d", sec.Start).
					Build()
			}
			seenSpeaker = true
			if len(ins) == 0 {
				continue
			}
			name, err := codec.DecodePlain(ins[0].Args)
			if err != nil {
				return "", "", err
			}
			character = textcodec.Escape(name)
			continue
		}

		if err := sectorText(&sb, ins, b.Index, codec); err != nil {
			return "", "", err
		}
	}
	return character, sb.String(), nil
}

func sectorText(sb *strings.Builder, ins []mes.Instruction, index int, codec gsiscript.StringCodec) error {
	for j := 0; j < len(ins); j++ {
		in := ins[j]
		switch in.Opcode {
		case mes.OpMesZ, mes.OpMes:
			text, err := codec.Decode(in.Opcode, in.Args)
			if err != nil {
				return err
			}
			sb.WriteString(textcodec.Escape(text))

		case mes.OpEscape:
			arg, _ := in.EscapeArg()
			switch arg {
			case mes.EscNewline:
				sb.WriteByte('\n')
			case mes.EscRuby:
				next, base, reading, err := ruby(ins, j, index, codec)
				if err != nil {
					return err
				}
				fmt.Fprintf(sb, "{%s:%s}", base, reading)
				j = next
			default:
				err := gserrors.UnknownEscapeSequence(in.Address, arg)
				err.Path = []string{fmt.Sprintf("block %04d", index)}
				return err
			}
		}
	}
	return nil
}

// ruby reads the ruby group opened by the escape at ins[esc]: string
// instructions up to OpRet form the reading, the instruction after it the
// base. It returns the index of the base instruction.
func ruby(ins []mes.Instruction, esc, index int, codec gsiscript.StringCodec) (int, string, string, error) {
	var reading strings.Builder
	j := esc + 1
	for ; j < len(ins) && ins[j].Opcode != mes.OpRet; j++ {
		if !ins[j].IsText() {
			continue
		}
		text, err := codec.Decode(ins[j].Opcode, ins[j].Args)
		if err != nil {
			return 0, "", "", err
		}
		reading.WriteString(textcodec.Escape(text))
	}
	j++ // terminator
	if j >= len(ins) || !ins[j].IsText() {
		addr := ins[esc].Address
		return 0, "", "", gserrors.New(gserrors.PhaseExport, gserrors.KindMalformedRuby).
			Path(fmt.Sprintf("block %04d", index)).
			Detail("ruby at 0x%08X has no base text", addr).
			Value(addr).
			Build()
	}
	base, err := codec.Decode(ins[j].Opcode, ins[j].Args)
	if err != nil {
		return 0, "", "", err
	}
	return j, textcodec.Escape(base), reading.String(), nil
}

// ExportTranslation writes one record per text block:
//
//	○NNNN○character○;-----...
//	original text
//	●NNNN●character●
//	original text, to be replaced by the translation
//
// Line breaks inside the text are written as real line breaks.
func ExportTranslation(w io.Writer, s *mes.Script, codec gsiscript.StringCodec) error {
	if len(s.Instructions) > 0 && !s.Segmented() {
		return gserrors.NotSegmented(gserrors.PhaseExport)
	}
	bw := bufio.NewWriter(w)
	for _, b := range s.TextBlocks() {
		character, body, err := BlockText(s, b, codec)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "○%04d○%s○%s\n", b.Index, character, HeaderRule)
		bw.WriteString(body)
		bw.WriteByte('\n')
		fmt.Fprintf(bw, "●%04d●%s●\n", b.Index, character)
		bw.WriteString(body)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
