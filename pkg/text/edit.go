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

package text

import (
	"sort"
	"strings"
)

// ✂️ Edit replaces the bytes of Span with New
type Edit struct {
	Span Span
	New  string
}

// Delta is the change in length this edit causes
func (e Edit) Delta() int {
	return len(e.New) - e.Span.Len()
}

// 🔄 Apply applies non-overlapping edits to s. Edits may be given in any order.
func Apply(s string, edits []Edit) string {
	if len(edits) == 0 {
		return s
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, e := range sorted {
		b.WriteString(s[last:e.Span.Start])
		b.WriteString(e.New)
		last = e.Span.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// RemapOffset translates an offset in the original string into the string
// produced by Apply. Offsets that fall strictly inside an edited span report
// false.
func RemapOffset(offset int, edits []Edit) (int, bool) {
	shift := 0
	for _, e := range edits {
		switch {
		case offset > e.Span.Start && offset < e.Span.End:
			return 0, false
		case offset >= e.Span.End:
			shift += e.Delta()
		}
	}
	return offset + shift, true
}

// ReplaceAll replaces every match of find in s with replace and returns the
// new string and the number of replacements.
func ReplaceAll(s, find, replace string, opts Options) (string, int, error) {
	spans, err := FindAll(s, find, opts)
	if err != nil {
		return "", 0, err
	}
	edits := make([]Edit, len(spans))
	for i, sp := range spans {
		edits[i] = Edit{Span: sp, New: replace}
	}
	return Apply(s, edits), len(spans), nil
}
