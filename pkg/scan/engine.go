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
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/abbreviator/pkg/document"
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎛️ Mode selects what a scan does with each match
type Mode int

const (
	// ModeReplace substitutes the resolved replacement text
	ModeReplace Mode = iota
	// ModeHighlight marks matches without changing text
	ModeHighlight
)

func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeHighlight:
		return "highlight"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// 📊 Progress is emitted after every chunk
type Progress struct {
	Percent     int
	Chunk       int
	TotalChunks int
	Message     string
}

// Listener receives progress on its own goroutine, in order
type Listener func(Progress)

// ResolveFunc maps a phrase to its replacement text
type ResolveFunc func(phrase string) string

// Owner serializes document access onto one goroutine.
// *document.Session implements it.
type Owner interface {
	RunOnOwner(ctx context.Context, fn func(document.Document) error) error
}

// ❌ HostOperationError wraps a document failure inside a chunk
type HostOperationError struct {
	Chunk  int
	Window Window
	Phrase string
	Err    error
}

func (e *HostOperationError) Error() string {
	if e.Phrase == "" {
		return fmt.Sprintf("chunk %d (words %d-%d): %v", e.Chunk, e.Window.Start, e.Window.End, e.Err)
	}
	return fmt.Sprintf("chunk %d (words %d-%d) phrase %q: %v", e.Chunk, e.Window.Start, e.Window.End, e.Phrase, e.Err)
}

func (e *HostOperationError) Unwrap() error {
	return e.Err
}

// 🧾 Result summarizes a scan. Chunk sets hold 0-based window indexes.
type Result struct {
	ID          uuid.UUID
	Mode        Mode
	TotalChunks int
	Completed   int
	Touched     *roaring.Bitmap
	Skipped     *roaring.Bitmap
	HostCalls   int
	Matches     int
	Cancelled   bool
}

// ⚙️ Engine runs chunked replace and highlight passes
type Engine struct {
	chunkSize int
	color     document.Color
	ready     []func() error
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithChunkSize sets the words per chunk
func WithChunkSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithHighlightColor sets the color used in ModeHighlight
func WithHighlightColor(c document.Color) EngineOption {
	return func(e *Engine) {
		e.color = c
	}
}

// WithReadiness adds a check that must pass before a scan starts
func WithReadiness(check func() error) EngineOption {
	return func(e *Engine) {
		e.ready = append(e.ready, check)
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		chunkSize: DefaultChunkSize,
		color:     document.ColorYellow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ChunkSize is the configured words per chunk
func (e *Engine) ChunkSize() int {
	return e.chunkSize
}

// 🚀 ScanAndApply walks the document chunk by chunk. Windows are computed
// from the starting word count and follow the words they cover when earlier
// chunks change the word count. Chunks without any candidate phrase are
// skipped without touching the document again. A worker
// goroutine drives the chunks and hands every document call to owner; a
// second goroutine delivers progress to onProgress.
//
// Cancellation is observed between chunks and is reported through
// Result.Cancelled, not as an error. A host failure stops the scan; the
// returned Result still describes the chunks that finished.
func (e *Engine) ScanAndApply(ctx context.Context, owner Owner, phrases []string, resolve ResolveFunc, mode Mode, onProgress Listener) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	for _, check := range e.ready {
		if err := check(); err != nil {
			return nil, errors.Errorf("scan not started: %w", err)
		}
	}
	if mode == ModeReplace && resolve == nil {
		return nil, errors.New("replace scan needs a resolver")
	}

	matcher, err := NewMatcher(phrases)
	if err != nil {
		logger.Warn().Err(err).Msg("phrase automaton unavailable, using plain substring search")
	}

	result := &Result{
		ID:      uuid.New(),
		Mode:    mode,
		Touched: roaring.New(),
		Skipped: roaring.New(),
	}
	scoped := logger.With().Str("scan_id", result.ID.String()).Str("mode", mode.String()).Logger()
	logger = &scoped
	ctx = logger.WithContext(ctx)

	// owner calls run to completion once started
	ownerCtx := context.WithoutCancel(ctx)

	var wordCount int
	if err := owner.RunOnOwner(ownerCtx, func(doc document.Document) error {
		wordCount = doc.WordCount()
		return nil
	}); err != nil {
		return nil, errors.Errorf("counting words: %w", err)
	}

	windows := Partition(wordCount, e.chunkSize)
	result.TotalChunks = len(windows)

	logger.Debug().
		Int("words", wordCount).
		Int("chunks", len(windows)).
		Int("phrases", matcher.Len()).
		Msg("starting scan")

	updates := make(chan Progress, len(windows)+1)

	var g errgroup.Group

	g.Go(func() error {
		for p := range updates {
			if onProgress != nil {
				onProgress(p)
			}
		}
		return nil
	})

	g.Go(func() error {
		defer close(updates)

		if len(windows) == 0 {
			updates <- Progress{Percent: 100, Message: "document is empty"}
			return nil
		}

		shift := 0
		for _, w := range windows {
			if err := ctx.Err(); err != nil {
				result.Cancelled = true
				logger.Info().Int("completed", result.Completed).Int("total", len(windows)).Msg("scan cancelled")
				return nil
			}

			touched, delta, err := e.runChunk(ownerCtx, owner, w, shift, matcher, phrases, resolve, mode, result)
			if err != nil {
				return err
			}
			shift += delta
			if touched {
				result.Touched.Add(uint32(w.Index))
			} else {
				result.Skipped.Add(uint32(w.Index))
			}
			result.Completed++

			chunk := w.Index + 1
			updates <- Progress{
				Percent:     chunk * 100 / len(windows),
				Chunk:       chunk,
				TotalChunks: len(windows),
				Message:     fmt.Sprintf("processed chunk %d of %d", chunk, len(windows)),
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Int("completed", result.Completed).Msg("scan aborted")
		return result, err
	}

	logger.Debug().
		Uint64("touched", result.Touched.GetCardinality()).
		Uint64("skipped", result.Skipped.GetCardinality()).
		Int("host_calls", result.HostCalls).
		Int("matches", result.Matches).
		Msg("scan finished")

	return result, nil
}

// runChunk processes w moved by shift words, the net word count change of
// earlier chunks. It reports whether any find call was made and the net
// word count change this chunk caused.
func (e *Engine) runChunk(ctx context.Context, owner Owner, w Window, shift int, matcher *Matcher, phrases []string, resolve ResolveFunc, mode Mode, result *Result) (bool, int, error) {
	logger := zerolog.Ctx(ctx)

	var (
		chunkText string
		r         = document.Range{Start: w.Start + shift, End: w.End + shift}
		empty     bool
	)
	err := owner.RunOnOwner(ctx, func(doc document.Document) error {
		wc := doc.WordCount()
		if r.Start < 1 {
			r.Start = 1
		}
		if r.Start > wc || r.End < r.Start {
			empty = true
			return nil
		}
		if r.End > wc {
			r.End = wc
		}
		var err error
		chunkText, err = doc.WordRange(r)
		return err
	})
	if err != nil {
		return false, 0, &HostOperationError{Chunk: w.Index + 1, Window: w, Err: err}
	}
	if empty || !matcher.Any(chunkText) {
		return false, 0, nil
	}

	touched := false
	delta := 0
	for _, phrase := range matcher.Present(chunkText, phrases) {
		if r.End < r.Start {
			break
		}

		var call func(document.Document) error
		var count int

		switch mode {
		case ModeHighlight:
			call = func(doc document.Document) error {
				n, err := doc.FindHighlight(r, phrase, e.color)
				count = n
				return err
			}
		default:
			replacement := resolve(phrase)
			if replacement == "" {
				logger.Warn().Str("phrase", phrase).Msg("skipping phrase with empty replacement")
				continue
			}
			call = func(doc document.Document) error {
				before := doc.WordCount()
				n, err := doc.FindReplace(r, phrase, replacement, text.Options{MatchWholeWord: true})
				count = n
				// keep the range on the same words for the next phrase
				moved := doc.WordCount() - before
				r.End += moved
				delta += moved
				return err
			}
		}

		touched = true
		result.HostCalls++
		if err := owner.RunOnOwner(ctx, call); err != nil {
			return touched, delta, &HostOperationError{Chunk: w.Index + 1, Window: w, Phrase: phrase, Err: err}
		}
		result.Matches += count
	}

	return touched, delta, nil
}
