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

package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/treesort/pkg/render"
	"github.com/walteh/treesort/pkg/warnings"
)

func plainColors(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
}

// 🧪 TestRender tests connectors, ordering and leaf annotation against
// a fixed tree
func TestRender(t *testing.T) {
	plainColors(t)
	root := t.TempDir()
	base := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "txt"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "jpg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "txt", "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "txt", "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "jpg", "cat.jpg"), []byte("c"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "stray"), []byte("s"), 0644))

	var buf bytes.Buffer
	r := &render.Renderer{Out: &buf}
	c := warnings.New()
	require.NoError(t, r.Render(base, c))
	assert.Zero(t, c.Len())

	want := "dist\n" +
		"├── jpg\n" +
		"│   └── cat.jpg\n" +
		"├── txt\n" +
		"│   ├── a.txt\n" +
		"│   └── b.txt\n" +
		"└── stray\n"
	assert.Equal(t, want, buf.String())
}

// 🧪 TestRenderIdempotent tests that two renders of an unchanged tree
// are byte-identical
func TestRenderIdempotent(t *testing.T) {
	plainColors(t)
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "log"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "log", "x.log"), []byte("x"), 0644))

	var first, second bytes.Buffer
	r1 := &render.Renderer{Out: &first}
	require.NoError(t, r1.Render(base, warnings.New()))
	r2 := &render.Renderer{Out: &second}
	require.NoError(t, r2.Render(base, warnings.New()))

	assert.Equal(t, first.String(), second.String())
}

// 🧪 TestRenderDirsBeforeFiles tests the two-level sort
func TestRenderDirsBeforeFiles(t *testing.T) {
	plainColors(t)
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "aaa.txt"), []byte("a"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "zzz"), 0755))

	var buf bytes.Buffer
	r := &render.Renderer{Out: &buf}
	require.NoError(t, r.Render(base, warnings.New()))

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "zzz")
	assert.Contains(t, string(lines[2]), "aaa.txt")
}

// 🧪 TestRenderInaccessibleDir tests the inaccessible marker and that
// siblings still render
func TestRenderInaccessibleDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not bind as root")
	}
	plainColors(t)
	base := t.TempDir()
	locked := filepath.Join(base, "locked")
	require.NoError(t, os.MkdirAll(locked, 0755))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	require.NoError(t, os.MkdirAll(filepath.Join(base, "open"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "open", "ok.txt"), []byte("ok"), 0644))

	var buf bytes.Buffer
	r := &render.Renderer{Out: &buf}
	c := warnings.New()
	require.NoError(t, r.Render(base, c))

	out := buf.String()
	assert.Contains(t, out, "[inaccessible]")
	assert.Contains(t, out, "ok.txt")
	require.Equal(t, 1, c.Len())
	assert.Contains(t, c.Entries()[0], locked)
}

// 🧪 TestRenderSingleFileRoot tests rendering a plain file path
func TestRenderSingleFileRoot(t *testing.T) {
	plainColors(t)
	base := t.TempDir()
	file := filepath.Join(base, "only.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	var buf bytes.Buffer
	r := &render.Renderer{Out: &buf}
	require.NoError(t, r.Render(file, warnings.New()))
	assert.Equal(t, "only.txt\n", buf.String())
}

// 🧪 TestRenderMissingRoot tests the error on a nonexistent root
func TestRenderMissingRoot(t *testing.T) {
	var buf bytes.Buffer
	r := &render.Renderer{Out: &buf}
	err := r.Render(filepath.Join(t.TempDir(), "ghost"), warnings.New())
	require.Error(t, err)
}
