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
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📊 DocumentStatus is the outcome of processing one document
type DocumentStatus int

const (
	StatusUnknown     DocumentStatus = iota
	StatusUnchanged                  // Nothing matched
	StatusModified                   // Text was replaced
	StatusHighlighted                // Highlights were added
	StatusFailed                     // The scan aborted
)

// String returns a string representation of DocumentStatus
func (s DocumentStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusHighlighted:
		return "highlighted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 DocumentInfo contains what a run did to one document
type DocumentInfo struct {
	Path     string         // Path as given on the command line
	Status   DocumentStatus // Outcome
	Size     int64          // Size in bytes after processing
	Checksum string         // Content hash after processing
	Matches  int            // Replacements or highlights
	Error    error          // Any error associated with this document
}

// 💾 FileManager handles document file access
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)

	// Atomic operations
	WriteFileAtomic(ctx context.Context, path string, content []byte) error

	// Backup operations
	BackupFile(ctx context.Context, path string) error
	RestoreFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks documents and reports progress
type StatusReporter interface {
	// Status tracking
	TrackDocument(ctx context.Context, info DocumentInfo)
	GetDocumentInfo(ctx context.Context, path string) (DocumentInfo, error)
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	fs        afero.Fs        // Filesystem holding the documents
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	// Status tracking
	mu    sync.RWMutex
	files map[string]DocumentInfo

	// Progress tracking
	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(fs afero.Fs, logger *zerolog.Logger) *Manager {
	return &Manager{
		fs:        fs,
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]DocumentInfo),
	}
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	tempPath := path + ".tmp"

	mode := os.FileMode(0644)
	if info, err := m.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	// Write to temp file
	if err := afero.WriteFile(m.fs, tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := m.fs.Rename(tempPath, path); err != nil {
		_ = m.fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return false, errors.Errorf("checking file existence: %w", err)
	}
	return ok, nil
}

func (m *Manager) BackupFile(ctx context.Context, path string) error {
	backupPath := path + ".bak"

	// Only backup if file exists
	ok, err := m.FileExists(ctx, path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	content, err := m.ReadFile(ctx, path)
	if err != nil {
		return errors.Errorf("creating backup: %w", err)
	}
	if err := m.WriteFileAtomic(ctx, backupPath, content); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}
	return nil
}

func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	backupPath := path + ".bak"

	ok, err := m.FileExists(ctx, backupPath)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("backup file does not exist: %s", backupPath)
	}

	content, err := m.ReadFile(ctx, backupPath)
	if err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}
	if err := m.WriteFileAtomic(ctx, path, content); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := m.fs.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}
	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackDocument(ctx context.Context, info DocumentInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	msg := m.formatter.FormatDocument(info)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().Str("path", info.Path).Str("status", info.Status.String()).Int("matches", info.Matches).Msg(msg)
}

func (m *Manager) GetDocumentInfo(ctx context.Context, path string) (DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return DocumentInfo{}, errors.Errorf("document not tracked: %s", path)
	}
	return info, nil
}

// ListDocuments returns every tracked document sorted by path
func (m *Manager) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]DocumentInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	m.logger.Debug().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	m.logger.Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.formatter.FormatProgress(m.processed, m.total)
	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(msg)
}

// Progress returns the processed and total counts of the current operation
func (m *Manager) Progress() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
