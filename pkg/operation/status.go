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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📋 Report describes the current state of the feature
type Report struct {
	Enabled           bool  // autocorrect table's ReplaceText
	MirrorInitialized bool  // mirror has been populated
	MirrorEntries     int   // entries held by the mirror
	TableEntries      int   // entries in the autocorrect table
	DictionaryEntries int   // distinct dictionary phrases
	DictionaryReady   error // nil when scans may start
}

// 🔍 Status is a local query; it never loads or seeds anything
func (o *operator) Status(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("checking status")

	on, err := o.table.ReplaceText(ctx)
	if err != nil {
		return nil, errors.Errorf("reading replace text setting: %w", err)
	}

	entries, err := o.table.Entries(ctx)
	if err != nil {
		return nil, errors.Errorf("listing autocorrect entries: %w", err)
	}

	report := &Report{
		Enabled:           on,
		MirrorInitialized: o.mirror.IsInitialized(),
		MirrorEntries:     o.mirror.Len(),
		TableEntries:      len(entries),
		DictionaryEntries: o.store.Len(),
		DictionaryReady:   o.store.Ready(),
	}

	logger.Debug().
		Bool("enabled", report.Enabled).
		Int("mirror", report.MirrorEntries).
		Int("table", report.TableEntries).
		Int("dictionary", report.DictionaryEntries).
		Msg("status collected")

	return report, nil
}
