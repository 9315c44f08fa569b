package rebuild

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	gsiscript "github.com/wippyai/gsi-script"
	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
	"go.uber.org/zap"
)

// MaxLineBreaks is the number of line breaks a text box holds.
const MaxLineBreaks = 3

var rubyGroup = regexp.MustCompile(`\{.*?:.*?\}`)

// Rebuild replaces the text of every text block with its record and
// rewrites the instruction arena and sector ranges to match.
//
// Speaker sectors become a single PUSHS of the record's character name.
// Other text sectors become MESZ runs with ESCAPE 0 between visual lines
// and ESCAPE 1 ruby groups. The first instruction of a rebuilt sector keeps
// the original sector's address so jumps to the sector start still
// resolve. Non-text sectors are kept as they are.
//
// On error the script is left unchanged.
func Rebuild(s *mes.Script, records []Record, codec gsiscript.StringCodec) error {
	if len(s.Instructions) > 0 && !s.Segmented() {
		return gserrors.NotSegmented(gserrors.PhaseRebuild)
	}

	textBlocks := len(s.TextBlocks())
	if have := len(records) - 1; have < textBlocks {
		return gserrors.BlockIndexMismatch(gserrors.PhaseRebuild, textBlocks, have)
	} else if have > textBlocks {
		Logger().Warn("translation has more records than text blocks",
			zap.Int("records", have),
			zap.Int("text_blocks", textBlocks),
		)
	}

	ins := make([]mes.Instruction, 0, len(s.Instructions))
	blocks := make([]mes.Block, 0, len(s.Blocks))
	index := 0
	rebuilt := 0

	for _, b := range s.Blocks {
		nb := mes.Block{
			ContainsText: b.ContainsText,
			Index:        b.Index,
			Sectors:      make([]mes.Sector, 0, len(b.Sectors)),
		}
		var rec Record
		if b.ContainsText {
			index++
			if b.Index != index {
				return gserrors.BlockIndexMismatch(gserrors.PhaseRebuild, index, b.Index)
			}
			rec = records[index]
		}

		for _, sec := range b.Sectors {
			start := len(ins)
			orig := s.SectorInstructions(sec)

			if !b.ContainsText || !sec.Type.IsText() {
				ins = append(ins, orig...)
				nb.Sectors = append(nb.Sectors, mes.Sector{Type: sec.Type, Start: start, End: len(ins)})
				continue
			}

			var text []mes.Instruction
			var err error
			if sec.Type == mes.TextSpeaker {
				text, err = speaker(rec.Character, codec)
			} else {
				text, err = Body(rec.Text, index, codec)
			}
			if err != nil {
				return err
			}
			if len(orig) > 0 {
				text[0].Address = orig[0].Address
				text[0].Synthetic = false
			}
			ins = append(ins, text...)
			nb.Sectors = append(nb.Sectors, mes.Sector{Type: sec.Type, Start: start, End: len(ins)})
			rebuilt++
		}
		blocks = append(blocks, nb)
	}

	Logger().Debug("rebuilt script",
		zap.Int("text_blocks", index),
		zap.Int("sectors", rebuilt),
		zap.Int("instructions_before", len(s.Instructions)),
		zap.Int("instructions_after", len(ins)),
	)
	s.Instructions = ins
	s.Blocks = blocks
	return nil
}

func speaker(name string, codec gsiscript.StringCodec) ([]mes.Instruction, error) {
	b, err := encode(name, codec)
	if err != nil {
		return nil, err
	}
	return []mes.Instruction{mes.NewInstruction(mes.OpPushS, b)}, nil
}

// Body encodes the text of one record as text instructions. It always
// returns at least one instruction.
func Body(text string, index int, codec gsiscript.StringCodec) ([]mes.Instruction, error) {
	var out []mes.Instruction
	breaks := 0

	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			breaks++
			if breaks > MaxLineBreaks {
				return nil, gserrors.LineBreakOverflow(index, strings.Count(text, "\n"), MaxLineBreaks)
			}
			out = append(out, mes.NewInstruction(mes.OpEscape, []byte{mes.EscNewline}))
		}

		pos := 0
		for _, m := range rubyGroup.FindAllStringIndex(line, -1) {
			plain, err := message(line[pos:m[0]], codec)
			if err != nil {
				return nil, err
			}
			out = append(out, plain...)

			group, err := rubyInstructions(line[m[0]:m[1]], codec)
			if err != nil {
				return nil, err
			}
			out = append(out, group...)
			pos = m[1]
		}
		rest, err := message(line[pos:], codec)
		if err != nil {
			return nil, err
		}
		out = append(out, rest...)
	}

	if len(out) == 0 {
		out = append(out, mes.NewInstruction(mes.OpMesZ, []byte{}))
	}
	return out, nil
}

// encode unescapes s and encodes it as a zero-terminated operand body,
// which cannot hold a NUL byte.
func encode(s string, codec gsiscript.StringCodec) ([]byte, error) {
	b, err := codec.Encode(textcodec.Unescape(s))
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, gserrors.Encoding(gserrors.PhaseRebuild, fmt.Sprintf("NUL byte in %q", s), nil)
	}
	return b, nil
}

// message encodes a plain run. Empty runs produce no instruction.
func message(s string, codec gsiscript.StringCodec) ([]mes.Instruction, error) {
	if s == "" {
		return nil, nil
	}
	b, err := encode(s, codec)
	if err != nil {
		return nil, err
	}
	return []mes.Instruction{mes.NewInstruction(mes.OpMesZ, b)}, nil
}

// rubyInstructions encodes "{base:reading}" as ESCAPE 1, MESZ reading,
// RET, MESZ base. A group with an empty base produces nothing.
func rubyInstructions(group string, codec gsiscript.StringCodec) ([]mes.Instruction, error) {
	inner := group[1 : len(group)-1]
	base, reading, _ := strings.Cut(inner, ":")
	if base == "" {
		return nil, nil
	}

	rb, err := encode(reading, codec)
	if err != nil {
		return nil, err
	}
	bb, err := encode(base, codec)
	if err != nil {
		return nil, err
	}
	return []mes.Instruction{
		mes.NewInstruction(mes.OpEscape, []byte{mes.EscRuby}),
		mes.NewInstruction(mes.OpMesZ, rb),
		mes.NewInstruction(mes.OpRet, nil),
		mes.NewInstruction(mes.OpMesZ, bb),
	}, nil
}
