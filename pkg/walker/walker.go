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

// Package walker enumerates the regular files of a directory tree.
package walker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/treesort/pkg/warnings"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxDepth bounds recursion when no explicit ceiling is set.
const DefaultMaxDepth = 256

// 🚶 Walker collects regular files under a root directory, depth-first.
type Walker struct {
	// MaxDepth is the recursion ceiling. DefaultMaxDepth when zero.
	MaxDepth int
	// Skip is a resolved directory identity excluded from traversal.
	// Used to keep a destination nested inside the source out of the
	// file list, which would otherwise copy into itself forever.
	Skip string
}

// Walk returns every regular file under root. Directory entries are
// visited in name order, so repeated runs over a fixed tree produce the
// same list. A directory that cannot be listed, or an entry that cannot
// be statted, is recorded on c and skipped; traversal of unrelated
// subtrees continues. Symlinked directories are followed at most once
// per resolved identity, which terminates symlink cycles.
func (w *Walker) Walk(ctx context.Context, root string, c *warnings.Collector) ([]string, error) {
	resolved, err := Resolve(root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", root, err)
	}

	maxDepth := w.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	st := &walkState{
		collector: c,
		logger:    zerolog.Ctx(ctx),
		skip:      w.Skip,
		maxDepth:  maxDepth,
		visited:   map[string]struct{}{resolved: {}},
	}
	st.descend(root, 0)
	return st.files, nil
}

type walkState struct {
	collector *warnings.Collector
	logger    *zerolog.Logger
	skip      string
	maxDepth  int
	visited   map[string]struct{}
	files     []string
}

func (s *walkState) descend(dir string, depth int) {
	if depth >= s.maxDepth {
		s.collector.Warnf("max depth %d reached at: %s", s.maxDepth, dir)
		return
	}

	// ReadDir returns entries sorted by name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.collector.Warnf("cannot read directory: %s", dir)
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			if entry.Type()&os.ModeSymlink != 0 {
				s.collector.Warnf("broken symlink: %s", path)
			} else {
				s.collector.Warnf("cannot access: %s", path)
			}
			continue
		}

		switch {
		case info.IsDir():
			resolved, err := Resolve(path)
			if err != nil {
				s.collector.Warnf("cannot resolve: %s", path)
				continue
			}
			if s.skip != "" && resolved == s.skip {
				s.logger.Debug().Str("dir", path).Msg("excluding destination subtree")
				continue
			}
			if _, seen := s.visited[resolved]; seen {
				s.collector.Warnf("symlink cycle at: %s", path)
				continue
			}
			s.visited[resolved] = struct{}{}
			s.descend(path, depth+1)
		case info.Mode().IsRegular():
			s.files = append(s.files, path)
		default:
			// Sockets, fifos, devices: nothing to copy.
			s.logger.Debug().Str("path", path).Msg("skipping irregular file")
		}
	}
}
