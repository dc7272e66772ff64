// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package copier copies classified files into per-extension buckets.
package copier

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/treesort/pkg/classify"
	"github.com/walteh/treesort/pkg/progress"
	"github.com/walteh/treesort/pkg/warnings"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔀 Policy decides what happens when a destination file already exists.
type Policy string

const (
	Overwrite Policy = "overwrite" // last writer wins
	Skip      Policy = "skip"      // keep the existing file
	Rename    Policy = "rename"    // write under a " (n)" suffix
)

// ParsePolicy validates a policy name. The empty string means Overwrite.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Overwrite:
		return Overwrite, nil
	case Skip:
		return Skip, nil
	case Rename:
		return Rename, nil
	default:
		return "", errors.Errorf("unknown conflict policy %q (want overwrite, skip or rename)", s)
	}
}

// 📊 Stats summarizes one copy batch.
type Stats struct {
	Copied  int // files written to a bucket
	Skipped int // ignored by pattern or kept under the skip policy
	Failed  int // failures recorded as warnings
}

// 🔧 Engine copies files into extension buckets under Dst.
type Engine struct {
	Dst        string
	OnConflict Policy
	// Ignore holds doublestar patterns matched against the
	// source-relative path of each file. Matches are skipped silently.
	Ignore []string
	// Jobs > 1 enables bounded parallel copying.
	Jobs     int
	Reporter progress.Reporter

	mu      sync.Mutex
	buckets map[string]struct{}
	stats   Stats
}

// CopyAll processes every file in the batch. Each file either lands in
// its bucket or produces exactly one warning on c; no failure aborts
// the batch. The reporter advances once per file regardless of outcome.
func (e *Engine) CopyAll(ctx context.Context, srcRoot string, files []string, c *warnings.Collector) Stats {
	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.Discard{}
	}
	e.buckets = make(map[string]struct{})
	e.stats = Stats{}

	reporter.Start(len(files))
	if e.Jobs > 1 {
		g := new(errgroup.Group)
		g.SetLimit(e.Jobs)
		for _, file := range files {
			file := file
			g.Go(func() error {
				e.process(ctx, srcRoot, file, c, reporter)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures become warnings
	} else {
		for _, file := range files {
			e.process(ctx, srcRoot, file, c, reporter)
		}
	}
	reporter.Finish()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) process(ctx context.Context, srcRoot, file string, c *warnings.Collector, reporter progress.Reporter) {
	defer reporter.Advance()

	if e.ignored(ctx, srcRoot, file) {
		e.count(func(s *Stats) { s.Skipped++ })
		return
	}

	copied, err := e.copyOne(file)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", file).Msg("copy failed")
		switch {
		case errors.Is(err, os.ErrPermission):
			c.Warnf("no access: %s", file)
		case errors.Is(err, os.ErrNotExist):
			c.Warnf("file not found: %s", file)
		default:
			c.Warnf("copy failed: %s", file)
		}
		e.count(func(s *Stats) { s.Failed++ })
		return
	}
	if copied {
		e.count(func(s *Stats) { s.Copied++ })
	} else {
		e.count(func(s *Stats) { s.Skipped++ })
	}
}

// copyOne copies a single file into its bucket. It reports copied=false
// with a nil error when the skip policy keeps an existing destination.
func (e *Engine) copyOne(file string) (bool, error) {
	bucket := classify.Bucket(file)
	dir := filepath.Join(e.Dst, bucket)
	if err := e.ensureBucket(dir); err != nil {
		return false, errors.Errorf("creating bucket directory: %w", err)
	}

	target := filepath.Join(dir, filepath.Base(file))
	if e.OnConflict == Skip || e.OnConflict == Rename {
		_, err := os.Stat(target)
		switch {
		case err == nil && e.OnConflict == Skip:
			return false, nil
		case err == nil && e.OnConflict == Rename:
			target, err = nextFreeTarget(target)
			if err != nil {
				return false, err
			}
		case !os.IsNotExist(err):
			return false, errors.Errorf("checking destination: %w", err)
		}
	}

	if err := copyFile(file, target); err != nil {
		return false, err
	}
	return true, nil
}

// ensureBucket creates a bucket directory at most once per run.
// "Already exists" counts as success, which keeps creation idempotent
// under concurrent attempts.
func (e *Engine) ensureBucket(dir string) error {
	e.mu.Lock()
	_, ok := e.buckets[dir]
	e.mu.Unlock()
	if ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	e.mu.Lock()
	e.buckets[dir] = struct{}{}
	e.mu.Unlock()
	return nil
}

func (e *Engine) ignored(ctx context.Context, srcRoot, file string) bool {
	if len(e.Ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(srcRoot, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range e.Ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("file", file).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}

func (e *Engine) count(update func(*Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	update(&e.stats)
}

// nextFreeTarget finds the first "name (n).ext" that does not exist yet.
func nextFreeTarget(target string) (string, error) {
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for n := 1; n < 10000; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Errorf("checking rename candidate: %w", err)
		}
	}
	return "", errors.Errorf("too many conflicting copies of %s", target)
}

// copyFile copies content and modification time, overwriting dst.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stating source file: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying file content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("preserving timestamps: %w", err)
	}
	return nil
}
