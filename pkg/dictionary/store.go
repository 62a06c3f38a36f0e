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

package dictionary

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/abbreviator/pkg/state"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrLoad means neither the cache nor the source produced a table.
	ErrLoad = errors.Base("dictionary load failed")
	// ErrNotReady is returned before the first successful load and while a
	// load is running. An empty but loaded table is ready.
	ErrNotReady = errors.Base("dictionary not ready")
)

// 📖 Entry maps a phrase to its abbreviation
type Entry struct {
	Phrase       string
	Abbreviation string
}

// 🗂️ Store owns the phrase to abbreviation table
type Store struct {
	source Source
	cache  *state.Cache

	mu     sync.RWMutex
	table  map[string]string
	order  []string
	loaded bool

	loading atomic.Int32
}

// Option configures a Store
type Option func(*Store)

// WithCache enables the fast-path cache file
func WithCache(c *state.Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// 🏭 New creates an empty store reading from source
func New(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		table:  map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 📥 Load replaces the table from the cache or, on a miss, from the source.
// A fresh parse of the source is written back to the cache.
func (s *Store) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	s.loading.Add(1)
	defer s.loading.Add(-1)

	fingerprint, err := s.source.Fingerprint(ctx)
	if err != nil {
		logger.Debug().Err(err).Str("source", s.source.Name()).Msg("source fingerprint unavailable")
		fingerprint = ""
	}

	if entries, ok := s.loadCache(ctx, fingerprint); ok {
		s.replace(entries)
		logger.Debug().Int("entries", len(entries)).Msg("dictionary loaded from cache")
		return nil
	}

	rows, err := s.source.Rows(ctx)
	if err != nil {
		s.reset()
		return errors.Join(ErrLoad, errors.Errorf("reading %s: %w", s.source.Name(), err))
	}
	entries := parseRows(rows)
	if len(entries) == 0 {
		logger.Warn().Str("source", s.source.Name()).Msg("dictionary source has no entries")
	}

	s.replace(entries)
	logger.Debug().Int("entries", len(entries)).Str("source", s.source.Name()).Msg("dictionary loaded from source")

	s.saveCache(ctx, fingerprint, entries)
	return nil
}

// 🔍 Lookup returns the abbreviation for phrase, or phrase itself when unknown
func (s *Store) Lookup(phrase string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if abbr, ok := s.table[phrase]; ok {
		return abbr
	}
	return phrase
}

// Get is Lookup that also reports whether phrase is a known key
func (s *Store) Get(phrase string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	abbr, ok := s.table[phrase]
	return abbr, ok
}

// AllPhrases returns every phrase in load order
func (s *Store) AllPhrases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns every entry in load order
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.order))
	for i, p := range s.order {
		out[i] = Entry{Phrase: p, Abbreviation: s.table[p]}
	}
	return out
}

// Len is the number of distinct phrases
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Ready returns ErrNotReady unless a load finished and none is running
func (s *Store) Ready() error {
	if s.loading.Load() > 0 {
		return errors.Errorf("reload in progress: %w", ErrNotReady)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return errors.Errorf("never loaded: %w", ErrNotReady)
	}
	return nil
}

func (s *Store) loadCache(ctx context.Context, fingerprint string) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	logger := zerolog.Ctx(ctx)

	file, err := s.cache.Load(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("dictionary cache unusable")
		return nil, false
	}
	if fingerprint != "" && file.SourceFingerprint != fingerprint {
		logger.Debug().
			Str("cached", file.SourceFingerprint).
			Str("current", fingerprint).
			Msg("dictionary cache is stale")
		return nil, false
	}

	rows := make([][]string, 0, len(file.Entries)+1)
	rows = append(rows, nil)
	for _, r := range file.Entries {
		rows = append(rows, []string{r.Key, r.Value})
	}
	entries := parseRows(rows)
	if len(entries) == 0 {
		return nil, false
	}
	return entries, true
}

func (s *Store) saveCache(ctx context.Context, fingerprint string, entries []Entry) {
	if s.cache == nil || len(entries) == 0 {
		return
	}

	records := make([]state.Record, len(entries))
	for i, e := range entries {
		records[i] = state.Record{Key: e.Phrase, Value: e.Abbreviation}
	}

	err := s.cache.Save(ctx, &state.File{SourceFingerprint: fingerprint, Entries: records})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", s.cache.Path()).Msg("could not write dictionary cache")
	}
}

func (s *Store) replace(entries []Entry) {
	table := make(map[string]string, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		table[e.Phrase] = e.Abbreviation
		order = append(order, e.Phrase)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
	s.order = order
	s.loaded = true
}

// reset empties the table after a failed load
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = map[string]string{}
	s.order = nil
	s.loaded = false
}

// parseRows skips the header row, trims the first two columns, drops empty
// phrases, and keeps the first row for a repeated phrase.
func parseRows(rows [][]string) []Entry {
	if len(rows) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(rows))
	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var phrase, abbr string
		if len(row) > 0 {
			phrase = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			abbr = strings.TrimSpace(row[1])
		}
		if phrase == "" {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		entries = append(entries, Entry{Phrase: phrase, Abbreviation: abbr})
	}
	return entries
}
