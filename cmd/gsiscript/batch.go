package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// collectFiles expands path into the scripts to process. A directory
// yields its entries matching pattern, sorted by name.
func collectFiles(path, pattern string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// runBatch applies fn to every file with at most workers in flight.
// A failing file does not stop the others; all failures are returned
// combined. Files not yet started when ctx is cancelled are skipped.
func runBatch(ctx context.Context, log *zap.Logger, files []string, workers int, fn func(path string) ([]string, error)) error {
	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(workers)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			written, err := fn(file)
			if err != nil {
				log.Error("failed", zap.String("file", file), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
				mu.Unlock()
				return nil
			}
			log.Info("done", zap.String("file", file), zap.Strings("wrote", written))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
