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
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 📝 DiffSummary describes how two versions of a document differ
type DiffSummary struct {
	Inserted int    // runes inserted
	Deleted  int    // runes deleted
	Pretty   string // colored inline rendering for terminals
}

// Changed reports whether the two inputs differed at all
func (d DiffSummary) Changed() bool {
	return d.Inserted > 0 || d.Deleted > 0
}

// Diff computes a semantic diff between before and after
func Diff(before, after string) DiffSummary {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var summary DiffSummary
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			summary.Inserted += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			summary.Deleted += len([]rune(d.Text))
		}
	}
	summary.Pretty = dmp.DiffPrettyText(diffs)
	return summary
}
