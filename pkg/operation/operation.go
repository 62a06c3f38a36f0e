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
	"io"

	"github.com/walteh/abbreviator/pkg/autocorrect"
	"github.com/walteh/abbreviator/pkg/config"
	"github.com/walteh/abbreviator/pkg/dictionary"
	"github.com/walteh/abbreviator/pkg/scan"
	"github.com/walteh/abbreviator/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator defines the main interface for abbreviator operations
type Operator interface {
	// Enable seeds the autocorrect table from the dictionary and turns replacement on
	Enable(ctx context.Context, onProgress scan.Listener) error
	// Disable turns replacement off and drops the mirror
	Disable(ctx context.Context, onProgress scan.Listener) error
	// Resume rebuilds the mirror when replacement was left on
	Resume(ctx context.Context) error
	// Reload rereads the dictionary from its source-of-record
	Reload(ctx context.Context) error
	// Status reports what is enabled and loaded
	Status(ctx context.Context) (*Report, error)
	// Lookup resolves a phrase the way a replace scan would
	Lookup(phrase string) string
	// ExpandSelection returns the abbreviation for a selected phrase while
	// replacement is on
	ExpandSelection(ctx context.Context, selection string) (string, bool, error)
	// ReplaceAll substitutes abbreviations in one document
	ReplaceAll(ctx context.Context, path string, opts FileOptions) (*FileResult, error)
	// Phrases lists the candidate phrases for the configured phrase source
	Phrases(ctx context.Context) ([]string, error)
	// HighlightAll marks abbreviable phrases in one document
	HighlightAll(ctx context.Context, path string, opts FileOptions) (*FileResult, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the validated abbreviator configuration
	Config *config.Config
	// Store is the loaded dictionary
	Store *dictionary.Store
	// Table is the autocorrect table
	Table autocorrect.Table
	// Mirror caches Table; a fresh one is created when nil
	Mirror *autocorrect.Mirror
	// Files reads and writes documents and tracks their status
	Files *status.Manager
	// Progress receives the progress bar; nil disables it
	Progress io.Writer
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Store == nil {
		return nil, errors.Errorf("dictionary store is required")
	}
	if opts.Table == nil {
		return nil, errors.Errorf("autocorrect table is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("status manager is required")
	}
	if opts.Mirror == nil {
		opts.Mirror = autocorrect.NewMirror()
	}

	engine := scan.NewEngine(
		scan.WithChunkSize(opts.Config.Scan.ChunkSize),
		scan.WithHighlightColor(opts.Config.Color()),
		scan.WithReadiness(opts.Store.Ready),
		scan.WithReadiness(opts.Mirror.Ready),
	)

	return &operator{
		config:   opts.Config,
		store:    opts.Store,
		table:    opts.Table,
		mirror:   opts.Mirror,
		files:    opts.Files,
		progress: opts.Progress,
		engine:   engine,
		open:     openText,
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	config   *config.Config
	store    *dictionary.Store
	table    autocorrect.Table
	mirror   *autocorrect.Mirror
	files    *status.Manager
	progress io.Writer
	engine   *scan.Engine
	open     func(content string) textDocument
}

// Lookup tries the mirror before the dictionary; unknown phrases come back
// unchanged
func (o *operator) Lookup(phrase string) string {
	return scan.ChainResolver(o.mirror, o.store)(phrase)
}

// Reload method is implemented in toggle.go
