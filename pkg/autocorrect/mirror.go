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
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotReady is returned while a population pass is running
var ErrNotReady = errors.Base("autocorrect mirror not ready")

// 🪞 Mirror is an in-memory copy of a Table. It is never authoritative and
// is only valid while initialized.
type Mirror struct {
	mu          sync.RWMutex
	entries     map[string]string
	initialized bool
	passes      int

	// number of Initialize calls in flight
	initializing atomic.Int32
}

func NewMirror() *Mirror {
	return &Mirror{entries: map[string]string{}}
}

// 🔄 Initialize copies every entry with a non-empty name and value from
// table. It does nothing when already initialized. The write lock is held
// for the whole pass so readers never see a partial mirror.
func (m *Mirror) Initialize(ctx context.Context, table Table) error {
	m.initializing.Add(1)
	defer m.initializing.Add(-1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	entries, err := table.Entries(ctx)
	if err != nil {
		m.entries = map[string]string{}
		return errors.Errorf("reading autocorrect table: %w", err)
	}

	fresh := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Value == "" {
			continue
		}
		fresh[e.Name] = e.Value
	}

	m.entries = fresh
	m.initialized = true
	m.passes++

	zerolog.Ctx(ctx).Debug().Int("entries", len(fresh)).Int("pass", m.passes).Msg("autocorrect mirror initialized")
	return nil
}

// Ready returns ErrNotReady while Initialize is running. It never blocks.
func (m *Mirror) Ready() error {
	if m.initializing.Load() > 0 {
		return errors.Errorf("initialize in progress: %w", ErrNotReady)
	}
	return nil
}

// Clear empties the mirror and resets the initialized flag
func (m *Mirror) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]string{}
	m.initialized = false
}

// TryGet looks up key; a miss is not an error
func (m *Mirror) TryGet(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return "", false
	}
	v, ok := m.entries[key]
	return v, ok
}

func (m *Mirror) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Passes counts completed population passes
func (m *Mirror) Passes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.passes
}

func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns every mirrored name, sorted
func (m *Mirror) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ✏️ Upsert writes through to table and then refreshes the mirrored entry
func (m *Mirror) Upsert(ctx context.Context, table Table, name, value string) error {
	if err := table.Upsert(ctx, name, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil
	}
	if value == "" {
		delete(m.entries, name)
		return nil
	}
	m.entries[name] = value
	return nil
}

// Remove deletes from table and then from the mirror
func (m *Mirror) Remove(ctx context.Context, table Table, name string) error {
	if err := table.Remove(ctx, name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}
