package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.MES", "A.MES", "notes.txt", "C.mes"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.MES"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := collectFiles(dir, "*.MES")
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "A.MES"), filepath.Join(dir, "b.MES")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files: got %v, want %v", got, want)
	}

	single := filepath.Join(dir, "notes.txt")
	got, err = collectFiles(single, "*.MES")
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}
	if len(got) != 1 || got[0] != single {
		t.Errorf("single file: got %v", got)
	}

	if _, err := collectFiles(filepath.Join(dir, "absent"), "*.MES"); err == nil {
		t.Error("expected error for a missing path")
	}
}

func TestRunBatchContinuesAfterFailure(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}
	failing := map[string]bool{"b": true, "d": true}
	var calls atomic.Int32

	err := runBatch(context.Background(), zap.NewNop(), files, 2, func(path string) ([]string, error) {
		calls.Add(1)
		if failing[path] {
			return nil, errors.New("broken")
		}
		return []string{path + ".out"}, nil
	})

	if got := calls.Load(); got != int32(len(files)) {
		t.Errorf("calls: got %d, want %d", got, len(files))
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("errors: got %d (%v), want 2", len(errs), err)
	}
	for _, e := range errs {
		if !strings.HasPrefix(e.Error(), "b: ") && !strings.HasPrefix(e.Error(), "d: ") {
			t.Errorf("unexpected error %q", e)
		}
	}
}

func TestRunBatchLimit(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = string(rune('a' + i))
	}
	var running, peak atomic.Int32

	err := runBatch(context.Background(), zap.NewNop(), files, 3, func(string) ([]string, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if p := peak.Load(); p > 3 {
		t.Errorf("peak concurrency: got %d, want at most 3", p)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := runBatch(ctx, zap.NewNop(), []string{"a", "b"}, 1, func(string) ([]string, error) {
		calls.Add(1)
		return nil, nil
	})
	if calls.Load() != 0 {
		t.Errorf("calls: got %d, want 0", calls.Load())
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("runBatch: got %v, want context.Canceled", err)
	}
}
