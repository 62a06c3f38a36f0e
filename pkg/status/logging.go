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

package status

import (
	"context"
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/abbreviator/pkg/scan"
)

// 📶 ProgressReporter shows scan progress as a pterm progress bar and feeds
// the manager's progress counters
type ProgressReporter struct {
	mgr *Manager
	bar *pterm.ProgressbarPrinter

	mu   sync.Mutex
	last int
}

// 🏭 NewProgressReporter starts a 0..100 progress operation. A nil writer
// disables the bar.
func (m *Manager) NewProgressReporter(ctx context.Context, title string, w io.Writer) *ProgressReporter {
	m.StartOperation(ctx, 100)

	r := &ProgressReporter{mgr: m}
	if w == nil {
		return r
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithWriter(w).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("progress bar unavailable")
		return r
	}
	r.bar = bar
	return r
}

// Listen returns a scan listener bound to ctx
func (r *ProgressReporter) Listen(ctx context.Context) scan.Listener {
	return func(p scan.Progress) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if p.Percent > r.last {
			if r.bar != nil {
				r.bar.Add(p.Percent - r.last)
			}
			r.last = p.Percent
		}
		if r.bar != nil && p.Message != "" {
			r.bar.UpdateTitle(p.Message)
		}
		r.mgr.UpdateProgress(ctx, r.last)
	}
}

// Percent is the last reported percentage
func (r *ProgressReporter) Percent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Done stops the bar and closes the manager's operation
func (r *ProgressReporter) Done(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		if _, err := r.bar.Stop(); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("stopping progress bar")
		}
		r.bar = nil
	}
	r.mgr.FinishOperation(ctx)
}
