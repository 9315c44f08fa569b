package mes

// TextType tags the role a sector plays inside a command block.
type TextType uint8

const (
	TextNone TextType = iota
	TextDialogue
	TextTrailing
	TextAlt
	TextChoice
	TextSpeaker
)

func (t TextType) String() string {
	switch t {
	case TextNone:
		return "none"
	case TextDialogue:
		return "dialogue"
	case TextTrailing:
		return "trailing"
	case TextAlt:
		return "alt"
	case TextChoice:
		return "choice"
	case TextSpeaker:
		return "speaker"
	default:
		return "unknown"
	}
}

// IsText reports whether the sector carries translatable text.
func (t TextType) IsText() bool {
	return t != TextNone
}

// Sector is a contiguous run of instructions inside a block.
// Start and End index Script.Instructions, End exclusive.
type Sector struct {
	Type  TextType
	Start int
	End   int
}

// Len returns the number of instructions in the sector.
func (s Sector) Len() int {
	return s.End - s.Start
}

// Block groups the sectors between two text separators.
type Block struct {
	Sectors      []Sector
	Index        int // 1-based, dense, text blocks only
	ContainsText bool
}

// Start returns the index of the block's first instruction.
func (b Block) Start() int {
	if len(b.Sectors) == 0 {
		return 0
	}
	return b.Sectors[0].Start
}

// End returns the index one past the block's last instruction.
func (b Block) End() int {
	if len(b.Sectors) == 0 {
		return 0
	}
	return b.Sectors[len(b.Sectors)-1].End
}

// Script is one parsed MES file. It owns the instruction arena
// that blocks and sectors index into.
type Script struct {
	TextBlockOffsets []uint32 // table0: addresses of OpMesJ instructions
	ReservedOffsets  []uint32 // table1: format-reserved, written empty
	Instructions     []Instruction
	Blocks           []Block
}

// Segmented reports whether command blocks have been assigned.
func (s *Script) Segmented() bool {
	return len(s.Blocks) > 0
}

// SectorInstructions returns the instructions covered by sec.
func (s *Script) SectorInstructions(sec Sector) []Instruction {
	return s.Instructions[sec.Start:sec.End]
}

// TextBlocks returns the blocks that carry text, in stream order.
func (s *Script) TextBlocks() []Block {
	var out []Block
	for _, b := range s.Blocks {
		if b.ContainsText {
			out = append(out, b)
		}
	}
	return out
}

// Opcodes returns the opcode of every instruction, in order.
func (s *Script) Opcodes() []byte {
	ops := make([]byte, len(s.Instructions))
	for i, in := range s.Instructions {
		ops[i] = in.Opcode
	}
	return ops
}
