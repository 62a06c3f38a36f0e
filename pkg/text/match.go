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
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// ErrWildcards is returned when a caller asks for wildcard matching.
var ErrWildcards = errors.Base("wildcard matching is not supported")

// 🔧 Options controls how a literal find behaves
type Options struct {
	MatchWholeWord bool // only match on word boundaries
	MatchCase      bool // compare runes exactly instead of case-folded
	Wildcards      bool // must be false, literal matching only
}

// 📏 Span is a half-open byte range [Start, End) inside a string
type Span struct {
	Start int
	End   int
}

// Len returns the byte length of the span
func (s Span) Len() int {
	return s.End - s.Start
}

// FoldRune maps a rune to the form used for case-insensitive comparison.
// The mapping is one rune to one rune so folded strings keep their rune count.
func FoldRune(r rune) rune {
	return unicode.ToLower(r)
}

// FoldString folds every rune of s with FoldRune
func FoldString(s string) string {
	return strings.Map(FoldRune, s)
}

// IsWordRune reports whether r counts as part of a word
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// 🔍 FindAll returns every non-overlapping literal occurrence of find in s,
// scanning left to right.
func FindAll(s, find string, opts Options) ([]Span, error) {
	if opts.Wildcards {
		return nil, ErrWildcards
	}
	if find == "" || s == "" {
		return nil, nil
	}

	var spans []Span
	for i := 0; i < len(s); {
		end, ok := matchAt(s, i, find, opts.MatchCase)
		if ok && (!opts.MatchWholeWord || isBoundary(s, i, end)) {
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return spans, nil
}

// Contains reports whether find occurs in s as a case-insensitive substring
func Contains(s, find string) bool {
	return strings.Contains(FoldString(s), FoldString(find))
}

// matchAt compares find against s starting at byte offset i and returns the
// byte offset in s where the match ends.
func matchAt(s string, i int, find string, matchCase bool) (int, bool) {
	j := i
	for _, fr := range find {
		if j >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[j:])
		if sr != fr && (matchCase || FoldRune(sr) != FoldRune(fr)) {
			return 0, false
		}
		j += size
	}
	return j, true
}

// isBoundary checks that the runes on either side of [start, end) are not
// word runes.
func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if IsWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if IsWordRune(r) {
			return false
		}
	}
	return true
}
