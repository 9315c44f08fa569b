package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/gsi-script/disasm"
	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/rebuild"
	"github.com/wippyai/gsi-script/segment"
	"github.com/wippyai/gsi-script/textcodec"
)

// Mode selects what is done with each script.
type Mode int

const (
	ModeNone Mode = iota
	ModeExport
	ModeExportAll
	ModeExportDialogue
	ModeRebuild
	ModeDisassemble
)

func (m Mode) String() string {
	switch m {
	case ModeExport:
		return "export"
	case ModeExportAll:
		return "strings"
	case ModeExportDialogue:
		return "dialogue"
	case ModeRebuild:
		return "rebuild"
	case ModeDisassemble:
		return "disassemble"
	default:
		return "none"
	}
}

// action processes one script file.
type action struct {
	cfg   *Config
	codec *textcodec.Codec
	mode  Mode
}

func newAction(cfg *Config, mode Mode) (*action, error) {
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	return &action{cfg: cfg, codec: codec, mode: mode}, nil
}

// Run dispatches on the mode and returns the paths it wrote.
func (a *action) Run(path string) ([]string, error) {
	switch a.mode {
	case ModeExport:
		return a.export(path)
	case ModeExportAll:
		return a.exportStrings(path, false)
	case ModeExportDialogue:
		return a.exportStrings(path, true)
	case ModeRebuild:
		return a.rebuild(path)
	case ModeDisassemble:
		return a.disassemble(path)
	default:
		return nil, fmt.Errorf("no mode selected")
	}
}

// loadScript parses and segments a script file.
func loadScript(path string) (*mes.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	s, err := mes.Parse(data)
	if err != nil {
		return nil, err
	}
	segment.Segment(s)
	return s, nil
}

// textPath is the translation file that belongs to a script.
func textPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}

func (a *action) export(path string) ([]string, error) {
	s, err := loadScript(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := disasm.ExportTranslation(&buf, s, a.codec); err != nil {
		return nil, err
	}
	out := textPath(path)
	return []string{out}, writeFile(out, buf.Bytes())
}

func (a *action) exportStrings(path string, filtered bool) ([]string, error) {
	s, err := loadScript(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := disasm.ExportStrings(&buf, s, a.codec, filtered); err != nil {
		return nil, err
	}
	out := textPath(path)
	return []string{out}, writeFile(out, buf.Bytes())
}

func (a *action) rebuild(path string) ([]string, error) {
	s, err := loadScript(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(textPath(path))
	if err != nil {
		return nil, fmt.Errorf("open translation: %w", err)
	}
	records, err := rebuild.ParseTranslation(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	if err := rebuild.Rebuild(s, records, a.codec); err != nil {
		return nil, err
	}
	data, err := mes.Encode(s)
	if err != nil {
		return nil, err
	}
	if _, err := mes.ParseValidate(data); err != nil {
		return nil, fmt.Errorf("rebuilt script does not parse back: %w", err)
	}

	out := filepath.Join(filepath.Dir(path), a.cfg.Output.RebuildDir, filepath.Base(path))
	return []string{out}, writeFile(out, data)
}

func (a *action) disassemble(path string) ([]string, error) {
	s, err := loadScript(path)
	if err != nil {
		return nil, err
	}
	format, err := disasm.ParseFormat(a.cfg.Output.DumpFormat)
	if err != nil {
		return nil, err
	}

	var listing bytes.Buffer
	if err := disasm.Disassemble(&listing, s, a.codec); err != nil {
		return nil, err
	}
	dump, err := disasm.NewDump(s, a.codec)
	if err != nil {
		return nil, err
	}
	var analysis bytes.Buffer
	if err := dump.Encode(&analysis, format); err != nil {
		return nil, err
	}

	dir := filepath.Join(filepath.Dir(path), a.cfg.Output.DisasmDir)
	base := filepath.Base(path)
	dis := filepath.Join(dir, base+".dis.txt")
	ana := filepath.Join(dir, base+".ana."+string(format))
	if err := writeFile(dis, listing.Bytes()); err != nil {
		return nil, err
	}
	return []string{dis, ana}, writeFile(ana, analysis.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
