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

// Package progress renders a single-line, in-place copy progress bar.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const barWidth = 40

// 📈 Reporter receives exactly one Advance per processed file.
type Reporter interface {
	Start(total int)
	Advance()
	Finish()
}

// Discard is a Reporter that does nothing. Used when progress output is
// disabled, when stdout is not a terminal, and in tests.
type Discard struct{}

func (Discard) Start(int) {}
func (Discard) Advance()  {}
func (Discard) Finish()   {}

// Bar renders a fixed-width bar of filled and empty glyphs plus an
// integer percentage, rewriting the same line on every advance. The
// pacing delay is a step function of the batch size: long enough to be
// visible on tiny trees, negligible on large ones. It is pacing only;
// correctness never depends on it.
type Bar struct {
	Out io.Writer
	// Delay picks the per-advance pacing for a batch. DefaultDelay when
	// nil. Tests inject a zero delay.
	Delay func(total int) time.Duration

	mu    sync.Mutex
	total int
	done  int
	sleep time.Duration
}

// DefaultDelay is the standard pacing step function.
func DefaultDelay(total int) time.Duration {
	switch {
	case total <= 20:
		return 200 * time.Millisecond
	case total <= 100:
		return 100 * time.Millisecond
	default:
		return 30 * time.Millisecond
	}
}

func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = total
	b.done = 0
	delay := b.Delay
	if delay == nil {
		delay = DefaultDelay
	}
	b.sleep = delay(total)
	b.draw()
}

func (b *Bar) Advance() {
	b.mu.Lock()
	if b.done < b.total {
		b.done++
	}
	b.draw()
	sleep := b.sleep
	b.mu.Unlock()
	if sleep > 0 {
		time.Sleep(sleep)
	}
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.Out)
}

// draw is called with b.mu held.
func (b *Bar) draw() {
	if b.total <= 0 {
		return
	}
	filled := barWidth * b.done / b.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	percent := 100 * b.done / b.total
	fmt.Fprintf(b.Out, "\rcopying files: [%s] %3d%%", bar, percent)
}

// ForTerminal returns a Bar when f is an interactive terminal and a
// Discard reporter otherwise, so piped output stays clean of control
// characters.
func ForTerminal(f *os.File) Reporter {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return &Bar{Out: f}
	}
	return Discard{}
}
