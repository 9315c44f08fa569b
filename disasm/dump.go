package disasm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	gsiscript "github.com/wippyai/gsi-script"
	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/mes"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a structural dump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", gserrors.InvalidInput(gserrors.PhaseConfig, "unknown dump format "+name)
	}
}

// cborEncMode uses canonical encoding so dumps of one script are byte-identical.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("disasm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Dump is the structural analysis of a segmented script.
type Dump struct {
	TextBlockOffsets []uint32    `json:"text_block_offsets" yaml:"text_block_offsets"`
	ReservedOffsets  []uint32    `json:"reserved_offsets,omitempty" yaml:"reserved_offsets,omitempty"`
	Blocks           []DumpBlock `json:"blocks" yaml:"blocks"`
}

// DumpBlock is one command block.
type DumpBlock struct {
	Index        int          `json:"index,omitempty" yaml:"index,omitempty"`
	ContainsText bool         `json:"contains_text" yaml:"contains_text"`
	Sectors      []DumpSector `json:"sectors" yaml:"sectors"`
}

// DumpSector is one sector and its instructions.
type DumpSector struct {
	Type         string            `json:"type" yaml:"type"`
	Instructions []DumpInstruction `json:"instructions" yaml:"instructions"`
}

// DumpInstruction is one instruction with its operand rendered.
type DumpInstruction struct {
	Address  uint32 `json:"address" yaml:"address"`
	Opcode   byte   `json:"opcode" yaml:"opcode"`
	Mnemonic string `json:"mnemonic" yaml:"mnemonic"`
	Raw      string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Operand  string `json:"operand,omitempty" yaml:"operand,omitempty"`
}

// NewDump builds the structural dump of a segmented script.
func NewDump(s *mes.Script, codec gsiscript.StringCodec) (*Dump, error) {
	if len(s.Instructions) > 0 && !s.Segmented() {
		return nil, gserrors.NotSegmented(gserrors.PhaseExport)
	}
	d := &Dump{
		TextBlockOffsets: s.TextBlockOffsets,
		ReservedOffsets:  s.ReservedOffsets,
		Blocks:           make([]DumpBlock, 0, len(s.Blocks)),
	}
	for _, b := range s.Blocks {
		db := DumpBlock{
			Index:        b.Index,
			ContainsText: b.ContainsText,
			Sectors:      make([]DumpSector, 0, len(b.Sectors)),
		}
		for _, sec := range b.Sectors {
			ds := DumpSector{Type: sec.Type.String()}
			for _, in := range s.SectorInstructions(sec) {
				operand, err := Operand(in, codec)
				if err != nil {
					return nil, err
				}
				ds.Instructions = append(ds.Instructions, DumpInstruction{
					Address:  in.Address,
					Opcode:   in.Opcode,
					Mnemonic: mes.Mnemonic(in.Opcode),
					Raw:      hex.EncodeToString(in.Args),
					Operand:  operand,
				})
			}
			db.Sectors = append(db.Sectors, ds)
		}
		d.Blocks = append(d.Blocks, db)
	}
	return d, nil
}

// Encode writes the dump in the given format.
func (d *Dump) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		data, err := cborEncMode.Marshal(d)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return gserrors.InvalidInput(gserrors.PhaseExport, "unknown dump format "+string(f))
	}
}
