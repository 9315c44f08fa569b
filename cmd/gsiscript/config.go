package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/gsi-script/disasm"
	gserrors "github.com/wippyai/gsi-script/errors"
	"github.com/wippyai/gsi-script/textcodec"
)

// ConfigFile is the name looked up next to the scripts and in the working directory.
const ConfigFile = "gsiscript.toml"

// Config is the gsiscript.toml tool configuration.
type Config struct {
	Pattern  string         `toml:"pattern"`
	LogLevel string         `toml:"log_level"`
	Encoding EncodingConfig `toml:"encoding"`
	Output   OutputConfig   `toml:"output"`
	Workers  int            `toml:"workers"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// EncodingConfig selects the text encodings.
type EncodingConfig struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
	Strict bool   `toml:"strict"`
}

// OutputConfig names output locations, relative to each script's directory.
type OutputConfig struct {
	RebuildDir string `toml:"rebuild_dir"`
	DisasmDir  string `toml:"disasm_dir"`
	DumpFormat string `toml:"dump_format"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Pattern:  "*.MES",
		LogLevel: "info",
		Workers:  1,
		Encoding: EncodingConfig{
			Source: "shift_jis",
			Target: "gbk",
		},
		Output: OutputConfig{
			RebuildDir: "rebuild",
			DisasmDir:  "disasm",
			DumpFormat: "json",
		},
	}
}

// LoadConfig parses a TOML configuration file. Unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.PhaseConfig, gserrors.KindInvalidInput, err, "cannot read "+path)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, gserrors.Wrap(gserrors.PhaseConfig, gserrors.KindInvalidInput, err, "parse error in "+path)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig loads the first gsiscript.toml found in dirs.
// It returns the defaults when there is none.
func FindConfig(dirs ...string) (*Config, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// Validate checks the worker count and that every named level, pattern,
// encoding and format is known.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return gserrors.InvalidInput(gserrors.PhaseConfig, fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return gserrors.Wrap(gserrors.PhaseConfig, gserrors.KindInvalidInput, err, "bad log level")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return gserrors.Wrap(gserrors.PhaseConfig, gserrors.KindInvalidInput, err, "bad pattern "+c.Pattern)
	}
	if _, err := c.Codec(); err != nil {
		return err
	}
	if _, err := disasm.ParseFormat(c.Output.DumpFormat); err != nil {
		return err
	}
	return nil
}

// Codec builds the string codec from the encoding section.
func (c *Config) Codec() (*textcodec.Codec, error) {
	src, err := textcodec.Lookup(c.Encoding.Source)
	if err != nil {
		return nil, err
	}
	dst, err := textcodec.Lookup(c.Encoding.Target)
	if err != nil {
		return nil, err
	}
	return &textcodec.Codec{Source: src, Target: dst, Strict: c.Encoding.Strict}, nil
}
