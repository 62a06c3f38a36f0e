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

package autocorrect

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrEmptyName is returned when writing an entry without a name.
var ErrEmptyName = errors.Base("autocorrect entry name is empty")

// 📝 Entry is one row of the autocorrect table
type Entry struct {
	Name  string
	Value string
}

// 🗃️ Table is the external autocorrect key/value table. Every call may be
// expensive, so callers read it through a Mirror.
type Table interface {
	// Entries lists every entry
	Entries(ctx context.Context) ([]Entry, error)
	// Upsert adds or overwrites an entry
	Upsert(ctx context.Context, name, value string) error
	// Remove deletes an entry; a missing entry is not an error
	Remove(ctx context.Context, name string) error
	// ReplaceText reports the replace-as-you-type setting
	ReplaceText(ctx context.Context) (bool, error)
	// SetReplaceText changes the replace-as-you-type setting
	SetReplaceText(ctx context.Context, on bool) error
}

var _ Table = (*MemoryTable)(nil)

// MemoryTable is an in-process Table
type MemoryTable struct {
	mu          sync.Mutex
	entries     map[string]string
	replaceText bool
}

func NewMemoryTable(entries ...Entry) *MemoryTable {
	t := &MemoryTable{entries: make(map[string]string, len(entries))}
	for _, e := range entries {
		t.entries[e.Name] = e.Value
	}
	return t
}

// Entries are returned sorted by name
func (t *MemoryTable) Entries(ctx context.Context) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.entries))
	for name, value := range t.entries {
		out = append(out, Entry{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *MemoryTable) Upsert(ctx context.Context, name, value string) error {
	if name == "" {
		return errors.WithStack(ErrEmptyName)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[name] = value
	return nil
}

func (t *MemoryTable) Remove(ctx context.Context, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, name)
	return nil
}

func (t *MemoryTable) ReplaceText(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaceText, nil
}

func (t *MemoryTable) SetReplaceText(ctx context.Context, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceText = on
	return nil
}
