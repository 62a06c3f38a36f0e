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

package document

import (
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrRange is returned when a word range falls outside the document.
var ErrRange = errors.Base("word range out of bounds")

// 🎨 Color is a highlight color
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// ParseColor validates a color name
func ParseColor(name string) (Color, error) {
	switch c := Color(name); c {
	case ColorRed, ColorGreen, ColorYellow:
		return c, nil
	default:
		return "", errors.Errorf("unknown highlight color %q", name)
	}
}

// 📏 Range is a 1-based inclusive window of words
type Range struct {
	Start int
	End   int
}

// Len is the number of words covered
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// 📄 Document is the word-addressable text a scan operates on.
// Implementations are not safe for concurrent use; access them through a
// Session.
type Document interface {
	// WordCount returns the number of words currently in the document
	WordCount() int
	// WordRange returns the literal text from the first to the last word of r
	WordRange(r Range) (string, error)
	// FindReplace replaces every occurrence of find inside r and returns the
	// number of replacements
	FindReplace(r Range, find, replace string, opts text.Options) (int, error)
	// FindHighlight marks every whole-word occurrence of find inside r
	FindHighlight(r Range, find string, color Color) (int, error)
}
