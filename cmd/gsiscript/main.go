package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	var (
		exportText  = flag.Bool("e", false, "Export text blocks as a translation file")
		exportAll   = flag.Bool("a", false, "Export every string with its address")
		exportDlg   = flag.Bool("s", false, "Export dialogue strings with their address")
		rebuildMode = flag.Bool("b", false, "Rebuild scripts from their translation files")
		disasmMode  = flag.Bool("d", false, "Write disassembly and structural dump")
		interactive = flag.Bool("i", false, "Interactive block browser")
		configPath  = flag.String("config", "", "Path to gsiscript.toml")
		workers     = flag.Int("workers", 0, "Files processed in parallel")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		format      = flag.String("format", "", "Structural dump format (json, yaml, cbor)")
		source      = flag.String("source", "", "Source script encoding")
		target      = flag.String("target", "", "Target script encoding")
	)
	flag.Usage = usage
	flag.Parse()

	mode, err := selectMode(*exportText, *exportAll, *exportDlg, *rebuildMode, *disasmMode, *interactive)
	if err != nil || flag.NArg() != 1 {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		}
		usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	cfg, err := loadConfig(*configPath, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	overrides{
		workers:  *workers,
		logLevel: *logLevel,
		format:   *format,
		source:   *source,
		target:   *target,
	}.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(path, cfg, mode); err != nil {
		if errs := multierr.Errors(err); len(errs) > 1 {
			fmt.Fprintf(os.Stderr, "Error: %d failures\n", len(errs))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gsiscript -e <file.MES|dir>   export translation text")
	fmt.Fprintln(os.Stderr, "       gsiscript -a <file.MES|dir>   export all strings")
	fmt.Fprintln(os.Stderr, "       gsiscript -s <file.MES|dir>   export dialogue strings")
	fmt.Fprintln(os.Stderr, "       gsiscript -b <file.MES|dir>   rebuild from <name>.txt")
	fmt.Fprintln(os.Stderr, "       gsiscript -d <file.MES|dir>   disassemble")
	fmt.Fprintln(os.Stderr, "       gsiscript -i <file.MES>       interactive mode")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

// selectMode requires exactly one mode flag.
func selectMode(export, all, dialogue, rebuild, disasm, interactive bool) (Mode, error) {
	mode := ModeNone
	n := 0
	for _, f := range []struct {
		set  bool
		mode Mode
	}{
		{export, ModeExport},
		{all, ModeExportAll},
		{dialogue, ModeExportDialogue},
		{rebuild, ModeRebuild},
		{disasm, ModeDisassemble},
		{interactive, ModeNone},
	} {
		if f.set {
			mode = f.mode
			n++
		}
	}
	switch n {
	case 0:
		return ModeNone, fmt.Errorf("no mode selected")
	case 1:
		return mode, nil
	default:
		return ModeNone, fmt.Errorf("only one mode may be selected")
	}
}

// loadConfig reads the explicit config file, or looks next to the input
// and then in the working directory.
func loadConfig(explicit, input string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	dir := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		dir = filepath.Dir(input)
	}
	return FindConfig(dir, ".")
}

// overrides holds command-line values that take precedence over the file.
type overrides struct {
	logLevel string
	format   string
	source   string
	target   string
	workers  int
}

func (o overrides) apply(cfg *Config) {
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.format != "" {
		cfg.Output.DumpFormat = o.format
	}
	if o.source != "" {
		cfg.Encoding.Source = o.source
	}
	if o.target != "" {
		cfg.Encoding.Target = o.target
	}
}

func run(path string, cfg *Config, mode Mode) error {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()
	installLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := collectFiles(path, cfg.Pattern)
	if err != nil {
		log.Error("cannot list input", zap.String("path", path), zap.Error(err))
		return err
	}
	if len(files) == 0 {
		log.Warn("no scripts found", zap.String("path", path), zap.String("pattern", cfg.Pattern))
		return nil
	}

	act, err := newAction(cfg, mode)
	if err != nil {
		log.Error("bad configuration", zap.Error(err))
		return err
	}

	log.Info("processing",
		zap.Stringer("mode", mode),
		zap.Int("files", len(files)),
		zap.Int("workers", cfg.Workers),
		zap.String("config", cfg.Path),
	)
	return runBatch(ctx, log, files, cfg.Workers, act.Run)
}
