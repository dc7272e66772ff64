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

// Package config resolves one run's settings from CLI arguments and the
// optional .treesort.yaml defaults file.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultDestination is used when no destination argument is given.
const DefaultDestination = "dist"

// DefaultFileName is the defaults file looked up in the working
// directory when --config is not set.
const DefaultFileName = ".treesort.yaml"

// 📚 Config holds the settings of one run. Source and Destination come
// from positional arguments only; the rest may come from the defaults
// file, overridden by flags.
type Config struct {
	Source      string `yaml:"-"`
	Destination string `yaml:"-"`

	IgnorePatterns []string `yaml:"ignore_patterns,omitempty"` // doublestar globs, source-relative
	OnConflict     string   `yaml:"on_conflict,omitempty"`     // overwrite | skip | rename
	Jobs           int      `yaml:"jobs,omitempty"`            // parallel copy workers
	MaxDepth       int      `yaml:"max_depth,omitempty"`       // traversal ceiling
	NoColor        bool     `yaml:"no_color,omitempty"`
	NoProgress     bool     `yaml:"no_progress,omitempty"`
}

// 🎯 Load reads the defaults file at path. A missing file is not an
// error; it yields an empty config. Unknown keys are rejected so typos
// in the defaults file surface immediately.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("no defaults file")
			return &Config{}, nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}
	logger.Debug().Str("path", path).Msg("loading defaults file")

	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty defaults file.
			return &Config{}, nil
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// 🔍 Validate resolves paths and enforces the fatal preconditions: the
// source must exist and be a directory. Everything else defaults.
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return errors.Errorf("source is required")
	}

	abs, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source path: %w", err)
	}
	cfg.Source = abs

	info, err := os.Stat(cfg.Source)
	if err != nil {
		return errors.Errorf("source %s does not exist", cfg.Source)
	}
	if !info.IsDir() {
		return errors.Errorf("source %s is not a directory", cfg.Source)
	}

	if cfg.Destination == "" {
		cfg.Destination = DefaultDestination
	}
	abs, err = filepath.Abs(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving destination path: %w", err)
	}
	cfg.Destination = abs

	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return nil
}

// 📝 String returns a one-line description of the run.
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.Source, cfg.Destination)
}
