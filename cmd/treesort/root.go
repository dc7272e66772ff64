package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/treesort/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	trace      bool
	noColor    bool
	noProgress bool
	ignore     []string
	onConflict string
	jobs       int
	maxDepth   int
)

// NewRootCmd builds the treesort command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treesort SRC [DST]",
		Short: "Copy a directory tree into per-extension buckets",
		Long: `treesort walks SRC recursively, copies every regular file into
DST/<extension>/<filename> (DST defaults to ./dist), and renders the
resulting destination tree. Files without an extension land in the
no_extension bucket. Failures on single files or directories become
warnings printed after the copy phase; they never abort the run.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context())

			cfg, err := resolveConfig(ctx, args)
			if err != nil {
				return err
			}
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultFileName, "defaults file path")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&trace, "trace", false, "enable trace logging")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob patterns of source-relative paths to skip")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "", "existing destination file policy: overwrite, skip or rename")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel copy workers")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "traversal depth ceiling")

	return cmd
}

// setupLogging configures the structured log on stderr based on flags.
// The console output of the run itself goes to stdout, separate from
// the log.
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if trace {
		level = zerolog.TraceLevel
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
	return logger.WithContext(ctx)
}

// resolveConfig merges the defaults file, flags and positional args.
// Flags win over the defaults file.
func resolveConfig(ctx context.Context, args []string) (*config.Config, error) {
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading defaults file: %w", err)
	}

	cfg.Source = args[0]
	if len(args) > 1 {
		cfg.Destination = args[1]
	}
	if noColor {
		cfg.NoColor = true
	}
	if noProgress {
		cfg.NoProgress = true
	}
	if len(ignore) > 0 {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, ignore...)
	}
	if onConflict != "" {
		cfg.OnConflict = onConflict
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}
	if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
