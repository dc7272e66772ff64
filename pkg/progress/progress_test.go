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

package progress_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/treesort/pkg/progress"
)

func noDelay(int) time.Duration { return 0 }

// 🧪 TestBarRendering tests the bar at empty, half and full
func TestBarRendering(t *testing.T) {
	var buf bytes.Buffer
	bar := &progress.Bar{Out: &buf, Delay: noDelay}

	bar.Start(2)
	assert.Contains(t, buf.String(), "[░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░]")
	assert.Contains(t, buf.String(), "0%")

	bar.Advance()
	half := buf.String()
	assert.Contains(t, half, strings.Repeat("█", 20)+strings.Repeat("░", 20))
	assert.Contains(t, half, "50%")

	bar.Advance()
	full := buf.String()
	assert.Contains(t, full, strings.Repeat("█", 40))
	assert.Contains(t, full, "100%")

	bar.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

// 🧪 TestBarRewritesInPlace tests that every frame starts with a
// carriage return instead of a newline
func TestBarRewritesInPlace(t *testing.T) {
	var buf bytes.Buffer
	bar := &progress.Bar{Out: &buf, Delay: noDelay}

	bar.Start(3)
	for i := 0; i < 3; i++ {
		bar.Advance()
	}

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Equal(t, 4, strings.Count(out, "\r"))
	assert.Zero(t, strings.Count(out, "\n"))
}

// 🧪 TestBarExtraAdvances tests that advancing past the total clamps
// at 100%
func TestBarExtraAdvances(t *testing.T) {
	var buf bytes.Buffer
	bar := &progress.Bar{Out: &buf, Delay: noDelay}

	bar.Start(1)
	bar.Advance()
	bar.Advance()
	assert.Contains(t, buf.String(), "100%")
	assert.NotContains(t, buf.String(), "200%")
}

// 🧪 TestDefaultDelay tests the pacing step function
func TestDefaultDelay(t *testing.T) {
	tests := []struct {
		total int
		want  time.Duration
	}{
		{total: 1, want: 200 * time.Millisecond},
		{total: 20, want: 200 * time.Millisecond},
		{total: 21, want: 100 * time.Millisecond},
		{total: 100, want: 100 * time.Millisecond},
		{total: 101, want: 30 * time.Millisecond},
		{total: 100000, want: 30 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progress.DefaultDelay(tt.total), "total=%d", tt.total)
	}
}

// 🧪 TestDiscard tests that the disabled reporter emits nothing
func TestDiscard(t *testing.T) {
	var d progress.Discard
	d.Start(10)
	d.Advance()
	d.Finish()
	// Nothing to observe; the point is that none of these panic or
	// write anywhere.
}
