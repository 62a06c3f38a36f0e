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
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/abbreviator/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

func setupTestManager(t *testing.T) (context.Context, *Manager, afero.Fs) {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	fs := afero.NewMemMapFs()
	return logger.WithContext(context.Background()), New(fs, &logger), fs
}

func TestFileManager(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fs afero.Fs)
		check func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs)
	}{
		{
			name: "atomic_write_creates_parents",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "/docs/a/notes.txt", []byte("hello")), "writing document")

				content, err := mgr.ReadFile(ctx, "/docs/a/notes.txt")
				require.NoError(t, err, "reading document")
				assert.Equal(t, "hello", string(content), "content should match")

				exists, err := afero.Exists(fs, "/docs/a/notes.txt.tmp")
				require.NoError(t, err, "checking temp file")
				assert.False(t, exists, "temp file should be gone")
			},
		},
		{
			name: "atomic_write_keeps_permissions",
			setup: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/notes.txt", []byte("old"), 0600), "seeding document")
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "/notes.txt", []byte("new")), "rewriting document")
				info, err := fs.Stat("/notes.txt")
				require.NoError(t, err, "stat")
				assert.Equal(t, "-rw-------", info.Mode().Perm().String(), "mode should be kept")
			},
		},
		{
			name: "backup_and_restore",
			setup: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/notes.txt", []byte("original"), 0644), "seeding document")
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs) {
				require.NoError(t, mgr.BackupFile(ctx, "/notes.txt"), "backing up")
				require.NoError(t, mgr.WriteFileAtomic(ctx, "/notes.txt", []byte("changed")), "changing document")
				require.NoError(t, mgr.RestoreFile(ctx, "/notes.txt"), "restoring")

				content, err := mgr.ReadFile(ctx, "/notes.txt")
				require.NoError(t, err, "reading document")
				assert.Equal(t, "original", string(content), "backup content restored")

				exists, err := mgr.FileExists(ctx, "/notes.txt.bak")
				require.NoError(t, err, "checking backup")
				assert.False(t, exists, "backup removed after restore")
			},
		},
		{
			name: "backup_missing_file_is_noop",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs) {
				require.NoError(t, mgr.BackupFile(ctx, "/missing.txt"), "nothing to back up")
				assert.Error(t, mgr.RestoreFile(ctx, "/missing.txt"), "nothing to restore")
			},
		},
		{
			name: "read_missing_file",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, fs afero.Fs) {
				_, err := mgr.ReadFile(ctx, "/missing.txt")
				assert.Error(t, err, "reading a missing document fails")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, mgr, fs := setupTestManager(t)
			if tt.setup != nil {
				tt.setup(t, fs)
			}
			tt.check(t, ctx, mgr, fs)
		})
	}
}

func TestTrackDocuments(t *testing.T) {
	ctx, mgr, _ := setupTestManager(t)

	mgr.TrackDocument(ctx, DocumentInfo{Path: "b.txt", Status: StatusModified, Matches: 2, Checksum: Checksum([]byte("b"))})
	mgr.TrackDocument(ctx, DocumentInfo{Path: "a.txt", Status: StatusFailed, Error: errors.New("host failure")})

	docs, err := mgr.ListDocuments(ctx)
	require.NoError(t, err, "listing documents")
	require.Len(t, docs, 2, "two documents tracked")
	assert.Equal(t, "a.txt", docs[0].Path, "sorted by path")

	info, err := mgr.GetDocumentInfo(ctx, "b.txt")
	require.NoError(t, err, "getting tracked document")
	assert.Equal(t, StatusModified, info.Status, "status kept")
	assert.Len(t, info.Checksum, 64, "sha256 hex checksum")

	_, err = mgr.GetDocumentInfo(ctx, "c.txt")
	assert.Error(t, err, "untracked document")
}

func TestProgressReporter(t *testing.T) {
	t.Run("without_bar", func(t *testing.T) {
		ctx, mgr, _ := setupTestManager(t)
		reporter := mgr.NewProgressReporter(ctx, "notes.txt", nil)
		listen := reporter.Listen(ctx)

		for _, p := range []int{33, 66, 100} {
			listen(scan.Progress{Percent: p})
		}
		reporter.Done(ctx)

		processed, total := mgr.Progress()
		assert.Equal(t, 100, processed, "processed follows the last percent")
		assert.Equal(t, 100, total, "progress is a percentage")
		assert.Equal(t, 100, reporter.Percent(), "reporter keeps the last percent")
	})

	t.Run("with_bar", func(t *testing.T) {
		ctx, mgr, _ := setupTestManager(t)
		buf := &bytes.Buffer{}
		reporter := mgr.NewProgressReporter(ctx, "notes.txt", buf)
		listen := reporter.Listen(ctx)

		listen(scan.Progress{Percent: 50, Message: "processed chunk 1 of 2"})
		listen(scan.Progress{Percent: 40})
		assert.Equal(t, 50, reporter.Percent(), "progress never goes backwards")

		listen(scan.Progress{Percent: 100, Message: "processed chunk 2 of 2"})
		reporter.Done(ctx)
		reporter.Done(ctx)

		assert.Equal(t, 100, reporter.Percent(), "bar reaches completion")
	})
}

func TestFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"modified", f.FormatDocument(DocumentInfo{Path: "a.txt", Status: StatusModified, Matches: 3}), "📝 Replaced 3 in a.txt"},
		{"highlighted", f.FormatDocument(DocumentInfo{Path: "a.txt", Status: StatusHighlighted, Matches: 1}), "🖍️  Highlighted 1 in a.txt"},
		{"failed", f.FormatDocument(DocumentInfo{Path: "a.txt", Status: StatusFailed}), "❌ Failed a.txt"},
		{"unchanged", f.FormatDocument(DocumentInfo{Path: "a.txt", Status: StatusUnchanged}), "👍 Unchanged a.txt"},
		{"progress_partial", f.FormatProgress(33, 100), "⏳ Progress: 33/100 (33%)"},
		{"progress_done", f.FormatProgress(100, 100), "✅ Progress: 100/100 (100%)"},
		{"progress_empty", f.FormatProgress(0, 0), "✅ Progress: 0/0 (0%)"},
		{"error", f.FormatError(errors.New("boom")), "❌ Error: boom"},
		{"nil_error", f.FormatError(nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got, "formatted message should match")
		})
	}
}

func TestDocumentStatusString(t *testing.T) {
	assert.Equal(t, "modified", StatusModified.String(), "modified")
	assert.Equal(t, "highlighted", StatusHighlighted.String(), "highlighted")
	assert.Equal(t, "unknown", DocumentStatus(42).String(), "out of range")
}
