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

package operation

import (
	"context"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// minSelection is the shortest selection that is considered for expansion
const minSelection = 3

// ✂️ ExpandSelection returns the abbreviation for a selection longer than
// three characters whose trimmed text is a dictionary phrase. Nothing is
// expanded while ReplaceText is off.
func (o *operator) ExpandSelection(ctx context.Context, selection string) (string, bool, error) {
	on, err := o.table.ReplaceText(ctx)
	if err != nil {
		return "", false, errors.Errorf("reading replace text setting: %w", err)
	}
	if !on {
		return "", false, nil
	}
	if utf8.RuneCountInString(selection) <= minSelection {
		return "", false, nil
	}
	trimmed := strings.TrimSpace(selection)
	if trimmed == "" {
		return "", false, nil
	}
	abbr, ok := o.store.Get(trimmed)
	if !ok || abbr == "" {
		return "", false, nil
	}
	return abbr, true, nil
}
