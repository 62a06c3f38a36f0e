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
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/abbreviator/pkg/autocorrect"
	"github.com/walteh/abbreviator/pkg/config"
	"github.com/walteh/abbreviator/pkg/dictionary"
	"github.com/walteh/abbreviator/pkg/document"
	"github.com/walteh/abbreviator/pkg/scan"
	"github.com/walteh/abbreviator/pkg/status"
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const testCSV = `Phrase,Abbreviation
as soon as possible,ASAP
for example,e.g.
that is,i.e.
no value,
`

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.TestWriter{T: t}).WithContext(context.Background())
}

type fixture struct {
	op    *operator
	fs    afero.Fs
	table *autocorrect.MemoryTable
	files *status.Manager
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()
	ctx := testContext(t)

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	store := dictionary.New(dictionary.NewReaderSource("test", []byte(testCSV), ','))
	require.NoError(t, store.Load(ctx), "loading dictionary")

	fs := afero.NewMemMapFs()
	logger := zerolog.New(zerolog.TestWriter{T: t})
	files := status.New(fs, &logger)
	table := autocorrect.NewMemoryTable()

	op, err := New(Options{Config: cfg, Store: store, Table: table, Files: files})
	require.NoError(t, err, "creating operator")

	return &fixture{op: op.(*operator), fs: fs, table: table, files: files}
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(content), 0644), "writing %s", path)
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

// failingDoc rejects edits for one phrase
type failingDoc struct {
	*document.TextDocument
	phrase string
}

func (d *failingDoc) FindReplace(r document.Range, find, replace string, opts text.Options) (int, error) {
	if find == d.phrase {
		return 0, errors.New("host rejected edit")
	}
	return d.TextDocument.FindReplace(r, find, replace, opts)
}

func (f *fixture) failOn(phrase string) {
	f.op.open = func(content string) textDocument {
		return &failingDoc{TextDocument: document.NewText(content), phrase: phrase}
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := config.Default()
	store := dictionary.New(dictionary.Embedded())
	table := autocorrect.NewMemoryTable()
	logger := zerolog.Nop()
	files := status.New(afero.NewMemMapFs(), &logger)

	tests := []struct {
		name        string
		opts        Options
		errContains string
	}{
		{name: "missing_config", opts: Options{Store: store, Table: table, Files: files}, errContains: "config"},
		{name: "missing_store", opts: Options{Config: cfg, Table: table, Files: files}, errContains: "dictionary"},
		{name: "missing_table", opts: Options{Config: cfg, Store: store, Files: files}, errContains: "autocorrect"},
		{name: "missing_files", opts: Options{Config: cfg, Store: store, Table: table}, errContains: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err, "New should fail")
			assert.Contains(t, err.Error(), tt.errContains, "error should name the missing dependency")
		})
	}

	op, err := New(Options{Config: cfg, Store: store, Table: table, Files: files})
	require.NoError(t, err, "complete options")
	assert.NotNil(t, op.(*operator).mirror, "a mirror is created when none is given")
}

func TestEnableDisableResume(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)

	require.NoError(t, f.op.Enable(ctx, nil), "enable")

	entries, err := f.table.Entries(ctx)
	require.NoError(t, err, "listing table")
	assert.Equal(t, []autocorrect.Entry{
		{Name: "as soon as possible", Value: "ASAP"},
		{Name: "for example", Value: "e.g."},
		{Name: "that is", Value: "i.e."},
	}, entries, "dictionary entries with an abbreviation are seeded")

	on, err := f.table.ReplaceText(ctx)
	require.NoError(t, err, "reading setting")
	assert.True(t, on, "enable turns replace text on")
	assert.True(t, f.op.mirror.IsInitialized(), "enable builds the mirror")
	assert.Equal(t, 3, f.op.mirror.Len(), "mirror holds the seeded entries")

	require.NoError(t, f.op.Disable(ctx, nil), "disable")
	on, err = f.table.ReplaceText(ctx)
	require.NoError(t, err, "reading setting")
	assert.False(t, on, "disable turns replace text off")
	assert.False(t, f.op.mirror.IsInitialized(), "disable clears the mirror")

	entries, err = f.table.Entries(ctx)
	require.NoError(t, err, "listing table")
	assert.Len(t, entries, 3, "disable keeps table entries")

	require.NoError(t, f.op.Resume(ctx), "resume while off")
	assert.False(t, f.op.mirror.IsInitialized(), "resume does nothing while off")

	require.NoError(t, f.table.SetReplaceText(ctx, true), "turning on directly")
	require.NoError(t, f.op.Resume(ctx), "resume while on")
	assert.True(t, f.op.mirror.IsInitialized(), "resume builds the mirror")
}

func TestEnableRequiresLoadedDictionary(t *testing.T) {
	ctx := testContext(t)
	logger := zerolog.New(zerolog.TestWriter{T: t})
	op, err := New(Options{
		Config: config.Default(),
		Store:  dictionary.New(dictionary.Embedded()),
		Table:  autocorrect.NewMemoryTable(),
		Files:  status.New(afero.NewMemMapFs(), &logger),
	})
	require.NoError(t, err, "creating operator")

	err = op.Enable(ctx, nil)
	require.ErrorIs(t, err, dictionary.ErrNotReady, "enable before load fails")
}

func TestEnableDisableProgress(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)

	var enabled []int
	require.NoError(t, f.op.Enable(ctx, func(p scan.Progress) {
		enabled = append(enabled, p.Percent)
	}), "enable")

	require.Equal(t, []int{0, 33, 66, 100}, enabled, "one update per seeded entry, then done")
	for i := 1; i < len(enabled); i++ {
		assert.GreaterOrEqual(t, enabled[i], enabled[i-1], "progress never goes backwards")
	}
	processed, total := f.files.Progress()
	assert.Equal(t, 100, processed, "status manager saw completion")
	assert.Equal(t, 100, total, "status manager total")

	var disabled []int
	require.NoError(t, f.op.Disable(ctx, func(p scan.Progress) {
		disabled = append(disabled, p.Percent)
	}), "disable")
	assert.Equal(t, []int{100}, disabled, "disable reports completion")
}

func TestEnableStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	f := newFixture(t, nil)

	seen := 0
	err := f.op.Enable(ctx, func(p scan.Progress) {
		seen++
		if seen == 2 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled, "enable reports the cancellation")
	assert.Contains(t, err.Error(), "2 of 3", "error says how far seeding got")

	entries, err := f.table.Entries(testContext(t))
	require.NoError(t, err, "listing table")
	assert.Len(t, entries, 2, "entries seeded before the cancel stay")

	on, err := f.table.ReplaceText(testContext(t))
	require.NoError(t, err, "reading setting")
	assert.False(t, on, "replace text stays off")
}

func TestReplaceAll(t *testing.T) {
	const original = "Reply as soon as possible, for example today. That is all."
	const replaced = "Reply ASAP, e.g. today. i.e. all."

	t.Run("dry_run", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, nil)
		f.write(t, "notes.txt", original)

		res, err := f.op.ReplaceAll(ctx, "notes.txt", FileOptions{DryRun: true, Diff: true})
		require.NoError(t, err, "dry run")
		assert.True(t, res.Changed, "content would change")
		assert.False(t, res.Written, "dry run does not write")
		assert.Equal(t, replaced, res.Output, "new content returned")
		assert.True(t, res.Diff.Changed(), "diff computed")
		assert.Equal(t, 3, res.Scan.Matches, "three phrases replaced")
		assert.Equal(t, original, f.read(t, "notes.txt"), "file untouched")
	})

	t.Run("write", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, nil)
		f.write(t, "notes.txt", original)

		var percents []int
		res, err := f.op.ReplaceAll(ctx, "notes.txt", FileOptions{
			Backup:     true,
			OnProgress: func(p scan.Progress) { percents = append(percents, p.Percent) },
		})
		require.NoError(t, err, "replace")
		assert.True(t, res.Written, "file written")
		assert.False(t, res.Diff.Changed(), "diff only computed on request")
		assert.Equal(t, replaced, f.read(t, "notes.txt"), "file rewritten")
		assert.Equal(t, original, f.read(t, "notes.txt.bak"), "backup keeps the original")
		assert.Equal(t, []int{100}, percents, "single chunk reports 100")

		processed, total := f.files.Progress()
		assert.Equal(t, 100, total, "status manager tracked the scan as a percentage")
		assert.Equal(t, 100, processed, "status manager saw the scan finish")

		info, err := f.files.GetDocumentInfo(ctx, "notes.txt")
		require.NoError(t, err, "document tracked")
		assert.Equal(t, status.StatusModified, info.Status, "tracked as modified")
		assert.Equal(t, 3, info.Matches, "matches tracked")
		assert.Equal(t, status.Checksum([]byte(replaced)), info.Checksum, "checksum of new content")
	})

	t.Run("nothing_to_replace", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, nil)
		f.write(t, "plain.txt", "nothing to see here")

		res, err := f.op.ReplaceAll(ctx, "plain.txt", FileOptions{})
		require.NoError(t, err, "replace")
		assert.False(t, res.Changed, "unchanged")
		assert.False(t, res.Written, "unchanged files are not rewritten")
		assert.Equal(t, 0, res.Scan.HostCalls, "no find calls for a chunk without candidates")

		info, err := f.files.GetDocumentInfo(ctx, "plain.txt")
		require.NoError(t, err, "document tracked")
		assert.Equal(t, status.StatusUnchanged, info.Status, "tracked as unchanged")
	})

	t.Run("host_failure_keeps_earlier_edits", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, func(cfg *config.Config) { cfg.Scan.ChunkSize = 4 })
		f.failOn("that is")
		f.write(t, "notes.txt", "for example a b that is c d")

		res, err := f.op.ReplaceAll(ctx, "notes.txt", FileOptions{})
		require.Error(t, err, "host failure is reported")
		var hostErr *scan.HostOperationError
		require.ErrorAs(t, err, &hostErr, "failure names the chunk")
		assert.Equal(t, "that is", hostErr.Phrase, "failing phrase")

		assert.Equal(t, 1, res.Scan.Completed, "first chunk finished")
		assert.True(t, res.Written, "partial result written")
		assert.Equal(t, "e.g. a b that is c d", f.read(t, "notes.txt"), "edits before the failure kept")

		info, err := f.files.GetDocumentInfo(ctx, "notes.txt")
		require.NoError(t, err, "document tracked")
		assert.Equal(t, status.StatusFailed, info.Status, "tracked as failed")
		assert.Equal(t, status.Checksum([]byte("e.g. a b that is c d")), info.Checksum, "checksum of what was written")
	})

	t.Run("host_failure_dry_run", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, func(cfg *config.Config) { cfg.Scan.ChunkSize = 4 })
		f.failOn("that is")
		f.write(t, "notes.txt", "for example a b that is c d")

		res, err := f.op.ReplaceAll(ctx, "notes.txt", FileOptions{DryRun: true})
		require.Error(t, err, "host failure is reported")
		assert.False(t, res.Written, "dry run never writes")
		assert.Equal(t, "e.g. a b that is c d", res.Output, "partial output returned")
		assert.Equal(t, "for example a b that is c d", f.read(t, "notes.txt"), "file untouched")
	})

	t.Run("missing_file", func(t *testing.T) {
		ctx := testContext(t)
		f := newFixture(t, nil)

		_, err := f.op.ReplaceAll(ctx, "absent.txt", FileOptions{})
		require.Error(t, err, "missing file fails")
		assert.Contains(t, err.Error(), "reading document", "error names the step")
	})
}

func TestReplaceAllNotReady(t *testing.T) {
	ctx := testContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "notes.txt", []byte("for example"), 0644), "writing file")
	logger := zerolog.New(zerolog.TestWriter{T: t})
	files := status.New(fs, &logger)

	op, err := New(Options{
		Config: config.Default(),
		Store:  dictionary.New(dictionary.Embedded()),
		Table:  autocorrect.NewMemoryTable(),
		Files:  files,
	})
	require.NoError(t, err, "creating operator")

	res, err := op.ReplaceAll(ctx, "notes.txt", FileOptions{})
	require.ErrorIs(t, err, dictionary.ErrNotReady, "scan refuses to start")
	assert.Nil(t, res.Scan, "no scan result")

	info, err := files.GetDocumentInfo(ctx, "notes.txt")
	require.NoError(t, err, "document tracked")
	assert.Equal(t, status.StatusFailed, info.Status, "tracked as failed")
}

func TestReplaceAllFromAutocorrect(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Scan.PhraseSource = config.PhraseSourceAutocorrect
	})
	require.NoError(t, f.table.Upsert(ctx, "by the way", "BTW"), "seeding table")
	f.write(t, "notes.txt", "By the way, reply as soon as possible.")

	res, err := f.op.ReplaceAll(ctx, "notes.txt", FileOptions{})
	require.NoError(t, err, "replace")
	assert.Equal(t, 1, res.Phrases, "only table entries are candidates")
	assert.Equal(t, config.PhraseSourceAutocorrect, res.Source, "phrase source reported")
	assert.Equal(t, "BTW, reply as soon as possible.", f.read(t, "notes.txt"), "only the table phrase is replaced")

	phrases, err := f.op.Phrases(ctx)
	require.NoError(t, err, "listing phrases")
	assert.Equal(t, []string{"by the way"}, phrases, "phrases come from the table")
}

func TestHighlightAll(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)
	f.write(t, "notes.txt", "See for example this, that is all.")

	res, err := f.op.HighlightAll(ctx, "notes.txt", FileOptions{})
	require.NoError(t, err, "highlight")
	assert.Equal(t, scan.ModeHighlight, res.Mode, "highlight mode")
	assert.True(t, res.Changed, "highlights added")
	assert.False(t, res.Written, "highlight never writes")
	assert.Equal(t, "See [[for example]] this, [[that is]] all.", res.Output, "rendered with brackets")
	assert.Equal(t, "See for example this, that is all.", f.read(t, "notes.txt"), "file untouched")

	info, err := f.files.GetDocumentInfo(ctx, "notes.txt")
	require.NoError(t, err, "document tracked")
	assert.Equal(t, status.StatusHighlighted, info.Status, "tracked as highlighted")

	res, err = f.op.HighlightAll(ctx, "notes.txt", FileOptions{
		Marker: func(s string, _ document.Color) string { return "<" + s + ">" },
	})
	require.NoError(t, err, "highlight with marker")
	assert.Equal(t, "See <for example> this, <that is> all.", res.Output, "custom marker used")
}

func TestExpandSelection(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)
	require.NoError(t, f.op.Enable(ctx, nil), "enable")

	tests := []struct {
		name      string
		selection string
		want      string
		wantOK    bool
	}{
		{name: "exact_phrase", selection: "as soon as possible", want: "ASAP", wantOK: true},
		{name: "trimmed_phrase", selection: "  that is ", want: "i.e.", wantOK: true},
		{name: "too_short", selection: "abc", wantOK: false},
		{name: "whitespace_only", selection: "      ", wantOK: false},
		{name: "unknown_phrase", selection: "unknown words", wantOK: false},
		{name: "empty_abbreviation", selection: "no value", wantOK: false},
		{name: "case_sensitive_key", selection: "For Example", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := f.op.ExpandSelection(ctx, tt.selection)
			require.NoError(t, err, "expand")
			assert.Equal(t, tt.wantOK, ok, "expansion found")
			assert.Equal(t, tt.want, got, "expansion text")
		})
	}
}

func TestExpandSelectionWhileDisabled(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)

	got, ok, err := f.op.ExpandSelection(ctx, "as soon as possible")
	require.NoError(t, err, "expand before enable")
	assert.False(t, ok, "nothing expands before enable")
	assert.Empty(t, got, "no expansion text")

	require.NoError(t, f.op.Enable(ctx, nil), "enable")
	got, ok, err = f.op.ExpandSelection(ctx, "as soon as possible")
	require.NoError(t, err, "expand while enabled")
	assert.True(t, ok, "expands while enabled")
	assert.Equal(t, "ASAP", got, "expansion text")

	require.NoError(t, f.op.Disable(ctx, nil), "disable")
	_, ok, err = f.op.ExpandSelection(ctx, "as soon as possible")
	require.NoError(t, err, "expand after disable")
	assert.False(t, ok, "nothing expands after disable")
}

func TestStatusAndLookup(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)

	report, err := f.op.Status(ctx)
	require.NoError(t, err, "status")
	assert.False(t, report.Enabled, "disabled at start")
	assert.False(t, report.MirrorInitialized, "mirror empty at start")
	assert.Equal(t, 0, report.TableEntries, "table empty at start")
	assert.Equal(t, 4, report.DictionaryEntries, "dictionary loaded")
	assert.NoError(t, report.DictionaryReady, "dictionary ready")

	assert.Equal(t, "ASAP", f.op.Lookup("as soon as possible"), "dictionary lookup")
	assert.Equal(t, "unknown", f.op.Lookup("unknown"), "identity on miss")

	require.NoError(t, f.op.Enable(ctx, nil), "enable")
	require.NoError(t, f.op.mirror.Upsert(ctx, f.table, "as soon as possible", "asap!"), "overriding in the table")
	assert.Equal(t, "asap!", f.op.Lookup("as soon as possible"), "mirror wins over dictionary")

	report, err = f.op.Status(ctx)
	require.NoError(t, err, "status")
	assert.True(t, report.Enabled, "enabled")
	assert.True(t, report.MirrorInitialized, "mirror built")
	assert.Equal(t, 3, report.MirrorEntries, "mirror entries")
	assert.Equal(t, 3, report.TableEntries, "table entries")
}

func TestReload(t *testing.T) {
	ctx := testContext(t)
	f := newFixture(t, nil)

	require.NoError(t, f.op.Reload(ctx), "reload")
	assert.Equal(t, 4, f.op.store.Len(), "reload replaces, never appends")
}
