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

package state

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// SchemaVersion is written into every cache file; other versions are a miss.
const SchemaVersion = 1

var (
	// ErrMiss marks a cache file that is absent, unreadable, or unusable.
	ErrMiss = errors.Base("cache miss")
	// ErrLocked is returned when another process holds the cache lock.
	ErrLocked = errors.Base("cache file is locked")
)

// 📦 Record is one phrase/abbreviation pair in the cache
type Record struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// 📚 File is the on-disk dictionary cache
type File struct {
	SchemaVersion int       `json:"version"`
	LastUpdated   time.Time `json:"last_updated"`

	// SourceFingerprint ties the cache to the source it was built from
	SourceFingerprint string `json:"source_hash"`

	// Entries keeps load order
	Entries []Record `json:"entries"`
}

// 💾 Cache reads and writes the dictionary cache file
type Cache struct {
	fs   afero.Fs
	path string
}

// 🏭 New creates a cache at path on fs
func New(fs afero.Fs, path string) *Cache {
	return &Cache{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.path
}

// DefaultPath is the per-user location of the cache file
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "abbreviator", "abbreviations.cache.json"), nil
}

// 📖 Load reads the cache. Every failure is reported as ErrMiss.
func (c *Cache) Load(ctx context.Context) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", c.path).Msg("loading dictionary cache")

	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return nil, errors.Join(ErrMiss, errors.Errorf("reading cache: %w", err))
	}

	var file File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Join(ErrMiss, errors.Errorf("parsing cache: %w", err))
	}

	if file.SchemaVersion != SchemaVersion {
		return nil, errors.Errorf("schema version %d: %w", file.SchemaVersion, ErrMiss)
	}
	if len(file.Entries) == 0 {
		return nil, errors.Errorf("no entries: %w", ErrMiss)
	}

	return &file, nil
}

// 💾 Save writes the cache atomically under an advisory lock
func (c *Cache) Save(ctx context.Context, file *File) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", c.path).Int("entries", len(file.Entries)).Msg("saving dictionary cache")

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return errors.Errorf("creating cache directory: %w", err)
	}

	unlock, err := c.lock()
	if err != nil {
		return err
	}
	defer unlock()

	file.SchemaVersion = SchemaVersion
	if file.LastUpdated.IsZero() {
		file.LastUpdated = time.Now().UTC()
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Errorf("encoding cache: %w", err)
	}

	tempPath := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := c.fs.Rename(tempPath, c.path); err != nil {
		_ = c.fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Remove deletes the cache file if present
func (c *Cache) Remove(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Str("path", c.path).Msg("removing dictionary cache")
	if err := c.fs.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing cache: %w", err)
	}
	return nil
}

// lock takes a file lock when the cache lives on the real filesystem
func (c *Cache) lock() (func(), error) {
	if _, ok := c.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}

	fl := flock.New(c.path + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("creating lock file: %w", err)
	}
	if !locked {
		return nil, errors.WithStack(ErrLocked)
	}
	return func() { _ = fl.Unlock() }, nil
}
