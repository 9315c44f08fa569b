package segment

import (
	"github.com/wippyai/gsi-script/mes"
	"go.uber.org/zap"
)

// Separators start a new command block. At each position the
// alternatives are tried in order.
var Separators = []*Pattern{
	Compile(Lit(mes.OpMesJ, mes.OpSelJ), Lit(mes.OpMesZ), Gap(), Lit(mes.OpPushW)),
	Compile(Lit(mes.OpMesJ), Gap(), Lit(mes.OpStore2)),
}

// Template classifies a block. Captured opcodes split the block into
// len(Types) sectors: the first sector ends at the first capture, the
// last runs to the end of the block.
type Template struct {
	Name    string
	Pattern *Pattern
	Types   []mes.TextType
}

// Templates in priority order. A block matching none is a single
// non-text sector.
var Templates = []Template{
	{
		Name: "speaker-choice",
		Pattern: Compile(
			Lit(mes.OpMesJ), Gap(), Lit(mes.OpStore2), Cap(mes.OpPushS), Gap(), Cap(mes.OpPushW), Lit(mes.OpPushW),
			Gap(), Lit(mes.OpStore2), Cap(mes.OpMesZ), Gap(), Cap(mes.OpPushW), Lit(mes.OpPushW),
		),
		Types: []mes.TextType{mes.TextNone, mes.TextSpeaker, mes.TextNone, mes.TextChoice, mes.TextNone},
	},
	{
		Name:    "trailing",
		Pattern: Compile(Lit(mes.OpMesJ), Gap(), Lit(mes.OpStore2), Cap(mes.OpMesZ), Gap(), Cap(mes.OpPushW), Lit(mes.OpPushW)),
		Types:   []mes.TextType{mes.TextNone, mes.TextTrailing, mes.TextNone},
	},
	{
		Name:    "dialogue",
		Pattern: Compile(Lit(mes.OpMesJ), Cap(mes.OpMesZ), Gap(), Cap(mes.OpPushW), Lit(mes.OpPushW)),
		Types:   []mes.TextType{mes.TextNone, mes.TextDialogue, mes.TextNone},
	},
	{
		Name:    "alt",
		Pattern: Compile(Lit(mes.OpSelJ), Cap(mes.OpMesZ), Gap(), Cap(mes.OpRet), Lit(mes.OpPushW)),
		Types:   []mes.TextType{mes.TextNone, mes.TextAlt, mes.TextNone},
	},
}

// Boundaries returns the instruction indexes at which separators start,
// scanning left to right without overlap.
func Boundaries(ops []byte) []int {
	matchers := make([]*Matcher, len(Separators))
	for i, p := range Separators {
		matchers[i] = NewMatcher(p, ops)
	}

	var starts []int
	for pos := 0; pos < len(ops); {
		end := -1
		for _, m := range matchers {
			if match, ok := m.MatchAt(pos); ok {
				end = match.End
				break
			}
		}
		if end < 0 {
			pos++
			continue
		}
		starts = append(starts, pos)
		pos = end
	}
	return starts
}

// Classify splits the instructions [lo, hi) of ops into sectors using the
// first template that matches inside the span.
func Classify(ops []byte, lo, hi int) (sectors []mes.Sector, text bool) {
	span := ops[lo:hi]
	for _, t := range Templates {
		m, ok := t.Pattern.Match(span)
		if !ok {
			continue
		}
		cuts := make([]int, 0, len(m.Groups)+2)
		cuts = append(cuts, lo)
		for _, g := range m.Groups {
			cuts = append(cuts, lo+g)
		}
		cuts = append(cuts, hi)

		sectors = make([]mes.Sector, len(t.Types))
		for i, typ := range t.Types {
			sectors[i] = mes.Sector{Type: typ, Start: cuts[i], End: cuts[i+1]}
		}
		return sectors, true
	}
	return []mes.Sector{{Type: mes.TextNone, Start: lo, End: hi}}, false
}

// Segment assigns command blocks to the script, replacing any existing
// ones, and returns them. Text blocks are numbered from 1 in stream order.
func Segment(s *mes.Script) []mes.Block {
	ops := s.Opcodes()

	cuts := append([]int{0}, Boundaries(ops)...)
	cuts = append(cuts, len(ops))

	blocks := make([]mes.Block, 0, len(cuts))
	index := 0
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		if lo == hi {
			continue
		}
		sectors, text := Classify(ops, lo, hi)
		b := mes.Block{Sectors: sectors, ContainsText: text}
		if text {
			index++
			b.Index = index
		}
		blocks = append(blocks, b)
	}

	s.Blocks = blocks
	Logger().Debug("segmented script",
		zap.Int("instructions", len(ops)),
		zap.Int("separators", len(cuts)-2),
		zap.Int("blocks", len(blocks)),
		zap.Int("text_blocks", index),
	)
	return blocks
}
