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

package scan

import (
	"sort"
	"strings"

	aho "github.com/anknown/ahocorasick"
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔎 Matcher answers "does this chunk contain any candidate phrase" with a
// single pass over the case-folded chunk text. Plain substring containment
// is used, so a hit is a superset of whole-word matches.
type Matcher struct {
	machine *aho.Machine
	keys    []string
	// fallback is set when the automaton could not be built
	fallback bool
}

// 🏭 NewMatcher compiles phrases. Empty and duplicate phrases are ignored.
func NewMatcher(phrases []string) (*Matcher, error) {
	seen := make(map[string]struct{}, len(phrases))
	keys := make([]string, 0, len(phrases))
	for _, p := range phrases {
		k := text.FoldString(p)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := &Matcher{keys: keys}
	if len(keys) == 0 {
		return m, nil
	}

	runes := make([][]rune, len(keys))
	for i, k := range keys {
		runes[i] = []rune(k)
	}

	machine := new(aho.Machine)
	if err := build(machine, runes); err != nil {
		m.fallback = true
		return m, err
	}
	m.machine = machine
	return m, nil
}

func build(machine *aho.Machine, keys [][]rune) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("building phrase automaton: %v", r)
		}
	}()
	return machine.Build(keys)
}

// Len is the number of distinct folded phrases
func (m *Matcher) Len() int {
	return len(m.keys)
}

// Fallback reports whether matching runs without the automaton
func (m *Matcher) Fallback() bool {
	return m.fallback
}

// Any reports whether chunk contains at least one phrase
func (m *Matcher) Any(chunk string) bool {
	if len(m.keys) == 0 || chunk == "" {
		return false
	}
	folded := text.FoldString(chunk)
	if m.machine == nil {
		for _, k := range m.keys {
			if strings.Contains(folded, k) {
				return true
			}
		}
		return false
	}
	return len(m.machine.MultiPatternSearch([]rune(folded), true)) > 0
}

// Present filters phrases down to those contained in chunk, keeping order
func (m *Matcher) Present(chunk string, phrases []string) []string {
	folded := text.FoldString(chunk)
	var out []string
	for _, p := range phrases {
		k := text.FoldString(p)
		if k != "" && strings.Contains(folded, k) {
			out = append(out, p)
		}
	}
	return out
}
