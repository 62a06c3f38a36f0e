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
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🖍️ Highlight is a presentation-only mark over a byte span of the content
type Highlight struct {
	Span  text.Span
	Color Color
}

// 📄 TextDocument is an in-memory plain text Document. Words are maximal runs
// of non-space runes.
type TextDocument struct {
	content    string
	words      []text.Span
	highlights []Highlight
}

var _ Document = (*TextDocument)(nil)

// 🏭 NewText creates a document over content
func NewText(content string) *TextDocument {
	d := &TextDocument{content: content}
	d.index()
	return d
}

// String returns the current content without highlight markers
func (d *TextDocument) String() string {
	return d.content
}

// Highlights returns a copy of the current highlight marks ordered by offset
func (d *TextDocument) Highlights() []Highlight {
	out := make([]Highlight, len(d.highlights))
	copy(out, d.highlights)
	return out
}

func (d *TextDocument) WordCount() int {
	return len(d.words)
}

func (d *TextDocument) WordRange(r Range) (string, error) {
	span, err := d.byteSpan(r)
	if err != nil {
		return "", err
	}
	return d.content[span.Start:span.End], nil
}

func (d *TextDocument) FindReplace(r Range, find, replace string, opts text.Options) (int, error) {
	span, err := d.byteSpan(r)
	if err != nil {
		return 0, err
	}

	matches, err := text.FindAll(d.content[span.Start:span.End], find, opts)
	if err != nil {
		return 0, errors.Errorf("finding %q: %w", find, err)
	}
	if len(matches) == 0 {
		return 0, nil
	}

	edits := make([]text.Edit, len(matches))
	for i, m := range matches {
		edits[i] = text.Edit{
			Span: text.Span{Start: span.Start + m.Start, End: span.Start + m.End},
			New:  replace,
		}
	}

	d.highlights = remapHighlights(d.highlights, edits)
	d.content = text.Apply(d.content, edits)
	d.index()
	return len(matches), nil
}

func (d *TextDocument) FindHighlight(r Range, find string, c Color) (int, error) {
	span, err := d.byteSpan(r)
	if err != nil {
		return 0, err
	}

	matches, err := text.FindAll(d.content[span.Start:span.End], find, text.Options{MatchWholeWord: true})
	if err != nil {
		return 0, errors.Errorf("finding %q: %w", find, err)
	}

	for _, m := range matches {
		d.mark(text.Span{Start: span.Start + m.Start, End: span.Start + m.End}, c)
	}
	return len(matches), nil
}

// 🖨️ Render returns the content with every highlight wrapped by marker.
// Overlapping highlights keep the one that starts first.
func (d *TextDocument) Render(marker func(s string, c Color) string) string {
	var b strings.Builder
	last := 0
	for _, h := range d.highlights {
		if h.Span.Start < last {
			continue
		}
		b.WriteString(d.content[last:h.Span.Start])
		b.WriteString(marker(d.content[h.Span.Start:h.Span.End], h.Color))
		last = h.Span.End
	}
	b.WriteString(d.content[last:])
	return b.String()
}

// BracketMarker renders highlights as [[text]]
func BracketMarker(s string, _ Color) string {
	return "[[" + s + "]]"
}

// ANSIMarker renders highlights with a terminal background color
func ANSIMarker(s string, c Color) string {
	switch c {
	case ColorRed:
		return color.New(color.BgRed, color.FgWhite).Sprint(s)
	case ColorYellow:
		return color.New(color.BgYellow, color.FgBlack).Sprint(s)
	default:
		return color.New(color.BgGreen, color.FgBlack).Sprint(s)
	}
}

// mark adds or recolors a highlight, keeping the list sorted
func (d *TextDocument) mark(span text.Span, c Color) {
	i := sort.Search(len(d.highlights), func(i int) bool {
		return d.highlights[i].Span.Start >= span.Start
	})
	for j := i; j < len(d.highlights) && d.highlights[j].Span.Start == span.Start; j++ {
		if d.highlights[j].Span == span {
			d.highlights[j].Color = c
			return
		}
	}
	d.highlights = append(d.highlights, Highlight{})
	copy(d.highlights[i+1:], d.highlights[i:])
	d.highlights[i] = Highlight{Span: span, Color: c}
}

func (d *TextDocument) byteSpan(r Range) (text.Span, error) {
	if r.Start < 1 || r.End < r.Start || r.End > len(d.words) {
		return text.Span{}, errors.Errorf("range [%d,%d] with %d words: %w", r.Start, r.End, len(d.words), ErrRange)
	}
	return text.Span{Start: d.words[r.Start-1].Start, End: d.words[r.End-1].End}, nil
}

func (d *TextDocument) index() {
	d.words = d.words[:0]
	start := -1
	for i, r := range d.content {
		if unicode.IsSpace(r) {
			if start >= 0 {
				d.words = append(d.words, text.Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		d.words = append(d.words, text.Span{Start: start, End: len(d.content)})
	}
}

// remapHighlights drops highlights touched by an edit and shifts the rest
func remapHighlights(highlights []Highlight, edits []text.Edit) []Highlight {
	if len(highlights) == 0 {
		return highlights
	}
	out := highlights[:0]
	for _, h := range highlights {
		if overlapsAny(h.Span, edits) {
			continue
		}
		start, ok1 := text.RemapOffset(h.Span.Start, edits)
		end, ok2 := text.RemapOffset(h.Span.End, edits)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Highlight{Span: text.Span{Start: start, End: end}, Color: h.Color})
	}
	return out
}

func overlapsAny(s text.Span, edits []text.Edit) bool {
	for _, e := range edits {
		if s.Start < e.Span.End && e.Span.Start < s.End {
			return true
		}
	}
	return false
}
