package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/gsi-script/mes"
	"github.com/wippyai/gsi-script/rebuild"
	"github.com/wippyai/gsi-script/segment"
)

// newLogger writes to stderr: coloured console output on a terminal,
// JSON lines otherwise.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	if isTerminal(os.Stderr) {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.CallerKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}

// installLogger hands l to the library packages.
func installLogger(l *zap.Logger) {
	mes.SetLogger(l.Named("mes"))
	segment.SetLogger(l.Named("segment"))
	rebuild.SetLogger(l.Named("rebuild"))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
