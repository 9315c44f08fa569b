package segment_test

import (
	"reflect"
	"testing"

	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/segment"
)

// build lays out a script from bare opcodes, giving each instruction
// operands of the right shape and registering MESJ addresses in table0.
func build(ops ...byte) *mes.Script {
	s := &mes.Script{}
	var addr uint32
	for _, op := range ops {
		in := mes.Instruction{Opcode: op, Address: addr}
		switch mes.ClassOf(op) {
		case mes.ArgByte:
			in.Args = []byte{0}
		case mes.ArgWord:
			in.Args = make([]byte, 4)
		case mes.ArgString:
			in.Args = []byte("x")
		}
		if op == mes.OpMesJ {
			s.TextBlockOffsets = append(s.TextBlockOffsets, addr)
		}
		s.Instructions = append(s.Instructions, in)
		addr += uint32(in.Size())
	}
	return s
}

type sec struct {
	typ        mes.TextType
	start, end int
}

func sectors(b mes.Block) []sec {
	out := make([]sec, len(b.Sectors))
	for i, s := range b.Sectors {
		out[i] = sec{s.Type, s.Start, s.End}
	}
	return out
}

func TestSegmentScenario(t *testing.T) {
	s := build(0x02, 0x19, 0x0A, 0x32, 0x32)
	blocks := segment.Segment(s)

	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}
	if blocks[0].ContainsText {
		t.Error("leading block should not contain text")
	}
	text := blocks[1]
	if !text.ContainsText || text.Index != 1 {
		t.Fatalf("text block: got ContainsText=%v Index=%d, want true 1", text.ContainsText, text.Index)
	}
	want := []sec{
		{mes.TextNone, 1, 2},
		{mes.TextDialogue, 2, 3},
		{mes.TextNone, 3, 5},
	}
	if got := sectors(text); !reflect.DeepEqual(got, want) {
		t.Errorf("sectors: got %v, want %v", got, want)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSegmentSinglePushHasNoText(t *testing.T) {
	s := build(0x02, 0x19, 0x0A, 0x32)
	blocks := segment.Segment(s)
	for i, b := range blocks {
		if b.ContainsText {
			t.Errorf("block %d: unexpected text block", i)
		}
	}
	if len(blocks) != 2 {
		t.Errorf("blocks: got %d, want 2", len(blocks))
	}
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		name string
		ops  []byte
		want []sec
	}{
		{
			name: "speaker and choice",
			ops:  []byte{0x19, 0x0E, 0x33, 0x32, 0x32, 0x0E, 0x0A, 0x32, 0x32},
			want: []sec{
				{mes.TextNone, 0, 2},
				{mes.TextSpeaker, 2, 3},
				{mes.TextNone, 3, 6},
				{mes.TextChoice, 6, 7},
				{mes.TextNone, 7, 9},
			},
		},
		{
			name: "trailing wins over dialogue",
			ops:  []byte{0x19, 0x0A, 0x0E, 0x0A, 0x32, 0x32},
			want: []sec{
				{mes.TextNone, 0, 3},
				{mes.TextTrailing, 3, 4},
				{mes.TextNone, 4, 6},
			},
		},
		{
			name: "dialogue with escapes",
			ops:  []byte{0x19, 0x0A, 0x1C, 0x0A, 0x32, 0x32, 0x00},
			want: []sec{
				{mes.TextNone, 0, 1},
				{mes.TextDialogue, 1, 4},
				{mes.TextNone, 4, 7},
			},
		},
		{
			name: "alt",
			ops:  []byte{0x1B, 0x0A, 0x0B, 0x00, 0x32},
			want: []sec{
				{mes.TextNone, 0, 1},
				{mes.TextAlt, 1, 3},
				{mes.TextNone, 3, 5},
			},
		},
		{
			name: "no template",
			ops:  []byte{0x1B, 0x0A, 0x32},
			want: []sec{{mes.TextNone, 0, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := build(tt.ops...)
			blocks := segment.Segment(s)
			if len(blocks) != 1 {
				t.Fatalf("blocks: got %d, want 1", len(blocks))
			}
			if got := sectors(blocks[0]); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sectors: got %v, want %v", got, tt.want)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name string
		ops  []byte
		want []int
	}{
		{"none", []byte{0x00, 0x02, 0x32}, nil},
		{"mesj store", []byte{0x02, 0x19, 0x0E, 0x19, 0x0E}, []int{1, 3}},
		{"no overlap", []byte{0x19, 0x19, 0x0E}, []int{0}},
		{"first alternative first", []byte{0x19, 0x0A, 0x0E, 0x19, 0x32, 0x0E}, []int{0}},
		{"selj needs message", []byte{0x1B, 0x32, 0x1B, 0x0A, 0x32}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segment.Boundaries(tt.ops); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Boundaries: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentCoverage(t *testing.T) {
	ops := []byte{
		0x02, 0x03, 0x19, 0x0A, 0x32, 0x32, 0x15, // dialogue
		0x19, 0x0E, 0x33, 0x32, 0x32, 0x0E, 0x0A, 0x32, 0x32, // speaker + choice
		0x1B, 0x0A, 0x0B, 0x00, 0x32, // alt
		0x19, 0x0E, 0x34, // separator without text
		0x19, 0x0A, 0x32, 0x32, 0x00, // dialogue
	}
	s := build(ops...)
	blocks := segment.Segment(s)

	next := 0
	index := 0
	for bi, b := range blocks {
		for _, sc := range b.Sectors {
			if sc.Start != next {
				t.Fatalf("block %d: sector starts at %d, want %d", bi, sc.Start, next)
			}
			next = sc.End
		}
		if b.ContainsText {
			index++
			if b.Index != index {
				t.Errorf("block %d: index %d, want %d", bi, b.Index, index)
			}
		}
	}
	if next != len(ops) {
		t.Errorf("coverage: got %d, want %d", next, len(ops))
	}
	if index != 4 {
		t.Errorf("text blocks: got %d, want 4", index)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSegmentReplacesBlocks(t *testing.T) {
	s := build(0x19, 0x0A, 0x32, 0x32)
	segment.Segment(s)
	first := len(s.Blocks)
	segment.Segment(s)
	if len(s.Blocks) != first {
		t.Errorf("blocks after second Segment: got %d, want %d", len(s.Blocks), first)
	}
}

func TestPattern(t *testing.T) {
	p := segment.Compile(segment.Lit(0x19), segment.Gap(), segment.Cap(0x32))

	tests := []struct {
		name  string
		ops   []byte
		ok    bool
		start int
		end   int
		group int
	}{
		{"lazy", []byte{0x19, 0x32, 0x32}, true, 0, 2, 1},
		{"leftmost", []byte{0x00, 0x19, 0x00, 0x32}, true, 1, 4, 3},
		{"no match", []byte{0x32, 0x19}, false, 0, 0, 0},
		{"empty", nil, false, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := p.Match(tt.ops)
			if ok != tt.ok {
				t.Fatalf("Match: got %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if m.Start != tt.start || m.End != tt.end || m.Groups[0] != tt.group {
				t.Errorf("Match: got [%d,%d) group %d, want [%d,%d) group %d",
					m.Start, m.End, m.Groups[0], tt.start, tt.end, tt.group)
			}
		})
	}
}

func TestMatcherFindRepeated(t *testing.T) {
	p := segment.Compile(segment.Lit(0x19), segment.Gap(), segment.Lit(0x0E))
	ops := []byte{0x19, 0x00, 0x0E, 0x19, 0x0E, 0x19}
	m := segment.NewMatcher(p, ops)

	var got [][2]int
	for pos := 0; ; {
		match, ok := m.Find(pos)
		if !ok {
			break
		}
		got = append(got, [2]int{match.Start, match.End})
		pos = match.End
	}
	want := [][2]int{{0, 3}, {3, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matches: got %v, want %v", got, want)
	}
}

func TestMatcherLongGap(t *testing.T) {
	ops := make([]byte, 20000)
	ops[0] = 0x19
	p := segment.Compile(segment.Lit(0x19), segment.Gap(), segment.Lit(0x0E))
	if _, ok := p.Match(ops); ok {
		t.Error("unexpected match")
	}
}
