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

package walker

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Resolve returns the canonical identity of a path: absolute with all
// symlinks evaluated. Two paths naming the same directory resolve to
// the same string regardless of how they were spelled.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("making path absolute: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Errorf("evaluating symlinks: %w", err)
	}
	return resolved, nil
}

// Contains reports whether child equals parent or lies inside parent's
// subtree. Both paths are compared by resolved identity, not lexically,
// so relative spellings and symlinks cannot defeat the check. Any
// failure to relate the two paths counts as "not contained".
func Contains(parent, child string) bool {
	p, err := Resolve(parent)
	if err != nil {
		return false
	}
	c, err := Resolve(child)
	if err != nil {
		// The child may not exist yet. Resolve its parent directory and
		// reattach the final component.
		base, baseErr := Resolve(filepath.Dir(child))
		if baseErr != nil {
			return false
		}
		c = filepath.Join(base, filepath.Base(child))
	}
	rel, err := filepath.Rel(p, c)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
