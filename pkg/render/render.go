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

// Package render prints a directory tree with box-drawing connectors.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/walteh/treesort/pkg/classify"
	"github.com/walteh/treesort/pkg/warnings"
	"gitlab.com/tozd/go/errors"
)

var (
	branchColor = color.New(color.FgHiBlack)
	dirColor    = color.New(color.Bold)
)

// 🌳 Renderer prints directory trees. Listings are read live from the
// filesystem on every call; nothing is retained between renders, so
// rendering an unchanged tree twice produces identical output.
type Renderer struct {
	Out io.Writer
}

// Render prints the tree rooted at path. At every level directories
// sort before files, alphabetically within each group. A directory
// whose listing cannot be read renders as a single inaccessible leaf
// and is recorded on c; siblings still render. Files are colored by
// their extension bucket, a display-only annotation.
func (r *Renderer) Render(path string, c *warnings.Collector) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating tree root %s: %w", path, err)
	}
	r.node(path, info.IsDir(), "", "", c)
	return nil
}

func (r *Renderer) node(path string, isDir bool, prefix, childPrefix string, c *warnings.Collector) {
	name := filepath.Base(path)

	if !isDir {
		fileColor := classify.Color(classify.Bucket(path))
		fmt.Fprintf(r.Out, "%s%s\n", branchColor.Sprint(prefix), fileColor.Sprint(name))
		return
	}

	fmt.Fprintf(r.Out, "%s%s\n", branchColor.Sprint(prefix), dirColor.Sprint(name))

	entries, err := os.ReadDir(path)
	if err != nil {
		c.Warnf("cannot read directory: %s", path)
		fmt.Fprintf(r.Out, "%s[inaccessible]\n", branchColor.Sprint(childPrefix+"└── "))
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for i, entry := range entries {
		connector, guide := "├── ", "│   "
		if i == len(entries)-1 {
			connector, guide = "└── ", "    "
		}
		r.node(filepath.Join(path, entry.Name()), entry.IsDir(), childPrefix+connector, childPrefix+guide, c)
	}
}
