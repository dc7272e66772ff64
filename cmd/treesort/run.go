package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/treesort/pkg/config"
	"github.com/walteh/treesort/pkg/copier"
	"github.com/walteh/treesort/pkg/progress"
	"github.com/walteh/treesort/pkg/render"
	"github.com/walteh/treesort/pkg/walker"
	"github.com/walteh/treesort/pkg/warnings"
	"gitlab.com/tozd/go/errors"
)

// run executes the pipeline: validate → collect → copy → flush
// warnings → render. Recoverable failures accumulate on the collector;
// only preconditions return an error.
func run(ctx context.Context, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("run", cfg.String()).Msg("starting")

	if cfg.NoColor {
		color.NoColor = true
	}

	policy, err := copier.ParsePolicy(cfg.OnConflict)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Destination, 0755); err != nil {
		return errors.Errorf("creating destination %s: %w", cfg.Destination, err)
	}

	lock, err := copier.AcquireLock(cfg.Destination)
	if err != nil {
		return err
	}
	var once sync.Once
	release := func() { once.Do(func() { copier.ReleaseLock(lock) }) }
	defer release()

	collector := warnings.New()

	// A destination nested inside the source must be excluded from
	// traversal or the copy would descend into its own output.
	var skip string
	if walker.Contains(cfg.Source, cfg.Destination) {
		resolved, err := walker.Resolve(cfg.Destination)
		if err != nil {
			return errors.Errorf("resolving destination: %w", err)
		}
		skip = resolved
		logger.Debug().Str("dst", resolved).Msg("destination nested inside source, excluding from traversal")
	}

	w := &walker.Walker{MaxDepth: cfg.MaxDepth, Skip: skip}
	files, err := w.Walk(ctx, cfg.Source, collector)
	if err != nil {
		return errors.Errorf("walking source tree: %w", err)
	}
	logger.Debug().Int("files", len(files)).Msg("collected source files")

	if len(files) > 0 {
		engine := &copier.Engine{
			Dst:        cfg.Destination,
			OnConflict: policy,
			Ignore:     cfg.IgnorePatterns,
			Jobs:       cfg.Jobs,
			Reporter:   newReporter(cfg),
		}
		stats := engine.CopyAll(ctx, cfg.Source, files, collector)
		logger.Debug().
			Int("copied", stats.Copied).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("copy phase finished")
		printSummary(stats)
	}

	release()

	if collector.Len() > 0 {
		collector.Flush(os.Stderr)
		fmt.Fprintln(os.Stderr)
	}

	renderer := &render.Renderer{Out: os.Stdout}
	if err := renderer.Render(cfg.Destination, collector); err != nil {
		return errors.Errorf("rendering destination tree: %w", err)
	}

	// Directories that became unreadable between copy and render.
	if collector.Len() > 0 {
		collector.Flush(os.Stderr)
	}
	return nil
}

func newReporter(cfg *config.Config) progress.Reporter {
	if cfg.NoProgress {
		return progress.Discard{}
	}
	return progress.ForTerminal(os.Stdout)
}

func printSummary(stats copier.Stats) {
	line := fmt.Sprintf("copied %d file(s), skipped %d, failed %d", stats.Copied, stats.Skipped, stats.Failed)
	if stats.Failed > 0 {
		fmt.Printf("⚠️  %s\n", color.New(color.FgYellow).Sprint(line))
		return
	}
	fmt.Printf("✅ %s\n", color.New(color.FgGreen).Sprint(line))
}
