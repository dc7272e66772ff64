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

// Package warnings collects non-fatal failure messages for one run.
package warnings

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// 📋 Collector is an ordered, append-only list of warning messages.
// Entries keep insertion order and duplicates are never collapsed.
// Appends are safe for concurrent use so the parallel copy path can
// share a single collector.
type Collector struct {
	mu      sync.Mutex
	entries []string
}

// 🏭 New creates an empty collector. One collector is owned by one run;
// it is threaded explicitly through every stage, never shared globally.
func New() *Collector {
	return &Collector{}
}

// Warnf records one formatted warning.
func (c *Collector) Warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, fmt.Sprintf(format, args...))
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a copy of the recorded warnings in insertion order.
func (c *Collector) Entries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

// Flush writes every warning to w in insertion order, each prefixed
// with a [WARN] tag, then clears the collector. Flushing an empty
// collector writes nothing.
func (c *Collector) Flush(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag := color.New(color.FgYellow)
	for _, entry := range c.entries {
		fmt.Fprintf(w, "%s %s\n", tag.Sprint("[WARN]"), entry)
	}
	c.entries = nil
}
