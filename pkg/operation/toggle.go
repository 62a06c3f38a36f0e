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
	"github.com/walteh/abbreviator/pkg/dictionary"
	"github.com/walteh/abbreviator/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// ✅ Enable pushes every dictionary entry into the autocorrect table, turns
// ReplaceText on and builds the mirror. onProgress may be nil. Cancellation
// is checked between entries; entries already seeded stay in the table.
func (o *operator) Enable(ctx context.Context, onProgress scan.Listener) error {
	logger := zerolog.Ctx(ctx)

	if err := o.store.Ready(); err != nil {
		return errors.Errorf("enabling: %w", err)
	}

	var seed []dictionary.Entry
	for _, e := range o.store.Entries() {
		if e.Abbreviation != "" {
			seed = append(seed, e)
		}
	}

	reporter, listen := o.report(ctx, "enable", onProgress)
	defer reporter.Done(ctx)

	for i, e := range seed {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("enabling stopped after %d of %d entries: %w", i, len(seed), err)
		}
		listen(scan.Progress{Percent: i * 100 / len(seed), Message: e.Phrase})
		if err := o.mirror.Upsert(ctx, o.table, e.Phrase, e.Abbreviation); err != nil {
			return errors.Errorf("seeding %q: %w", e.Phrase, err)
		}
	}

	if err := o.table.SetReplaceText(ctx, true); err != nil {
		return errors.Errorf("turning replace text on: %w", err)
	}

	if err := o.mirror.Initialize(ctx, o.table); err != nil {
		return errors.Errorf("initializing mirror: %w", err)
	}
	listen(scan.Progress{Percent: 100, Message: "enabled"})

	logger.Info().Int("seeded", len(seed)).Int("mirrored", o.mirror.Len()).Msg("abbreviations enabled")
	return nil
}

// 🚫 Disable turns ReplaceText off and clears the mirror. Table entries are
// kept.
func (o *operator) Disable(ctx context.Context, onProgress scan.Listener) error {
	reporter, listen := o.report(ctx, "disable", onProgress)
	defer reporter.Done(ctx)

	if err := o.table.SetReplaceText(ctx, false); err != nil {
		return errors.Errorf("turning replace text off: %w", err)
	}
	o.mirror.Clear()
	listen(scan.Progress{Percent: 100, Message: "disabled"})

	zerolog.Ctx(ctx).Info().Msg("abbreviations disabled")
	return nil
}

// 🔁 Resume initializes the mirror if ReplaceText is on
func (o *operator) Resume(ctx context.Context) error {
	on, err := o.table.ReplaceText(ctx)
	if err != nil {
		return errors.Errorf("reading replace text setting: %w", err)
	}
	if !on {
		zerolog.Ctx(ctx).Debug().Msg("replace text is off, mirror left empty")
		return nil
	}
	if err := o.mirror.Initialize(ctx, o.table); err != nil {
		return errors.Errorf("initializing mirror: %w", err)
	}
	return nil
}

// 🔄 Reload replaces the dictionary from its source. A failed reload leaves
// the store empty and not ready.
func (o *operator) Reload(ctx context.Context) error {
	if err := o.store.Load(ctx); err != nil {
		return errors.Errorf("reloading dictionary: %w", err)
	}
	zerolog.Ctx(ctx).Info().Int("entries", o.store.Len()).Msg("dictionary reloaded")
	return nil
}
