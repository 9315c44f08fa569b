package testbed

import (
	"math/rand/v2"
	"testing"

	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/textcodec"
)

// Characters whose Shift-JIS lead byte passes MESZ expansion unchanged.
var kana = []rune("あいうえおかきくけこさしすせそたちつてとアイウエオ一二")

type sceneKind int

const (
	sceneDialogue sceneKind = iota
	sceneTrailing
	sceneSpeaker
	sceneAlt
	sceneKinds
)

// corpus generates scripts made of text scenes separated by filler code,
// with jumps between scene starts.
type corpus struct {
	rng    *rand.Rand
	sjis   *textcodec.Codec
	t      testing.TB
	ins    []mes.Instruction
	starts []int       // instruction index of each scene
	jumps  map[int]int // jump instruction index -> scene number
	scenes int
}

func newCorpus(t testing.TB, seed uint64, scenes int) *corpus {
	t.Helper()
	return &corpus{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		sjis:   sjisCodec(t),
		t:      t,
		jumps:  make(map[int]int),
		scenes: scenes,
	}
}

func sjisCodec(t testing.TB) *textcodec.Codec {
	t.Helper()
	enc, err := textcodec.Lookup("shift_jis")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	return &textcodec.Codec{Source: enc, Target: enc, Strict: true}
}

func (c *corpus) emit(op byte, args []byte) {
	c.ins = append(c.ins, mes.Instruction{Opcode: op, Args: args})
}

func (c *corpus) word(op byte) {
	c.emit(op, make([]byte, 4))
}

// jump emits a jump to a random scene start.
func (c *corpus) jump(op byte) {
	c.jumps[len(c.ins)] = c.rng.IntN(c.scenes)
	c.word(op)
}

func (c *corpus) text() []byte {
	n := 1 + c.rng.IntN(6)
	r := make([]rune, n)
	for i := range r {
		r[i] = kana[c.rng.IntN(len(kana))]
	}
	b, err := c.sjis.Encode(string(r))
	if err != nil {
		c.t.Fatalf("Encode: %v", err)
	}
	return b
}

// body emits up to four visual lines, some with ruby groups.
func (c *corpus) body() {
	lines := 1 + c.rng.IntN(4)
	for l := 0; l < lines; l++ {
		if l > 0 {
			c.emit(mes.OpEscape, []byte{mes.EscNewline})
		}
		c.emit(mes.OpMesZ, c.text())
		if c.rng.IntN(3) == 0 {
			c.emit(mes.OpEscape, []byte{mes.EscRuby})
			c.emit(mes.OpMesZ, c.text())
			c.emit(mes.OpRet, nil)
			c.emit(mes.OpMesZ, c.text())
		}
	}
}

func (c *corpus) filler() {
	for n := c.rng.IntN(4); n > 0; n-- {
		switch c.rng.IntN(4) {
		case 0:
			c.emit(0x02, nil)
		case 1:
			c.emit(0x0C, nil)
		case 2:
			c.emit(0x34, nil)
		default:
			c.jump(mes.OpJmp)
		}
	}
}

func (c *corpus) scene(kind sceneKind) {
	c.starts = append(c.starts, len(c.ins))
	switch kind {
	case sceneDialogue:
		c.word(mes.OpMesJ)
		c.body()
		c.word(mes.OpPushW)
		c.word(mes.OpPushW)
	case sceneTrailing:
		c.word(mes.OpMesJ)
		c.word(mes.OpPushW)
		c.emit(mes.OpStore2, nil)
		c.body()
		c.word(mes.OpPushW)
		c.word(mes.OpPushW)
	case sceneSpeaker:
		c.word(mes.OpMesJ)
		c.emit(mes.OpStore2, nil)
		c.emit(mes.OpPushS, c.text())
		c.word(mes.OpPushW)
		c.word(mes.OpPushW)
		c.emit(mes.OpStore2, nil)
		c.body()
		c.word(mes.OpPushW)
		c.word(mes.OpPushW)
	case sceneAlt:
		c.jump(mes.OpSelJ)
		c.emit(mes.OpMesZ, c.text())
		c.emit(mes.OpRet, nil)
		c.word(mes.OpPushW)
	}
}

// Build generates the script and returns its encoded form.
func (c *corpus) Build() []byte {
	c.t.Helper()
	c.emit(0x02, nil)
	for i := 0; i < c.scenes; i++ {
		c.scene(sceneKind(c.rng.IntN(int(sceneKinds))))
		c.filler()
	}
	c.emit(mes.OpRet, nil)

	s := &mes.Script{Instructions: c.ins}
	var addr uint32
	for i := range s.Instructions {
		s.Instructions[i].Address = addr
		addr += uint32(s.Instructions[i].Size())
	}
	for from, scene := range c.jumps {
		s.Instructions[from].Args = mes.WordArgs(s.Instructions[c.starts[scene]].Address)
	}

	out, err := mes.Encode(s)
	if err != nil {
		c.t.Fatalf("Encode: %v", err)
	}
	return out
}
