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

// Package classify maps file paths to extension buckets and display colors.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🪣 NoExtension is the bucket for files without an extension.
const NoExtension = "no_extension"

// Bucket returns the destination bucket for a file path: the extension
// lowercased, without the leading dot. Names with no dot, and hidden
// files whose only dot is the leading one (".gitignore"), are
// extensionless and map to NoExtension.
func Bucket(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || strings.TrimSuffix(base, ext) == "" {
		return NoExtension
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return NoExtension
	}
	return strings.ToLower(ext)
}

// 🎨 bucketColors keys display colors by bucket. Presentation only;
// nothing in traversal or copying depends on it.
var bucketColors = map[string]*color.Color{
	"txt":  color.New(color.FgGreen),
	"log":  color.New(color.FgYellow),
	"jpg":  color.New(color.FgMagenta),
	"jpeg": color.New(color.FgMagenta),
	"png":  color.New(color.FgCyan),
	"gif":  color.New(color.FgHiMagenta),
	"pdf":  color.New(color.FgRed),
	"doc":  color.New(color.FgHiBlue),
	"xml":  color.New(color.FgHiCyan),
	"yml":  color.New(color.FgHiGreen),
}

var defaultColor = color.New(color.FgWhite)

// Color returns the display color for a bucket.
func Color(bucket string) *color.Color {
	if c, ok := bucketColors[bucket]; ok {
		return c
	}
	return defaultColor
}
