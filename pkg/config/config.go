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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/abbreviator/pkg/document"
	"github.com/walteh/abbreviator/pkg/scan"
	"github.com/walteh/abbreviator/pkg/state"
	"gitlab.com/tozd/go/errors"
)

const (
	// PhraseSourceDictionary draws scan phrases from the dictionary
	PhraseSourceDictionary = "dictionary"
	// PhraseSourceAutocorrect draws scan phrases from the autocorrect table
	PhraseSourceAutocorrect = "autocorrect"

	appDir = "abbreviator"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📖 DictionaryConfig selects the dictionary source and its cache
type DictionaryConfig struct {
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`         // csv/tsv/xlsx path, empty for the built-in table
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"` // Fast-path cache file
	NoCache   bool   `json:"no_cache,omitempty" yaml:"no_cache,omitempty"`     // Skip the cache entirely
}

// 🗃️ AutocorrectConfig locates the autocorrect table
type AutocorrectConfig struct {
	Database string `json:"database,omitempty" yaml:"database,omitempty"` // sqlite file
}

// 🔍 ScanConfig tunes the batch scan
type ScanConfig struct {
	ChunkSize      int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	HighlightColor string `json:"highlight_color,omitempty" yaml:"highlight_color,omitempty"`
	PhraseSource   string `json:"phrase_source,omitempty" yaml:"phrase_source,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Dictionary  DictionaryConfig  `json:"dictionary" yaml:"dictionary"`
	Autocorrect AutocorrectConfig `json:"autocorrect" yaml:"autocorrect"`
	Scan        ScanConfig        `json:"scan" yaml:"scan"`
	Async       bool              `json:"async,omitempty" yaml:"async,omitempty"`
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault is Load, except that a missing file yields Default()
func LoadOrDefault(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Errorf("checking config file: %w", err)
	}
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return Load(ctx, fs, path)
}

// 🔍 Validate checks if the configuration is valid and applies defaults
func (cfg *Config) Validate() error {
	if cfg.Scan.ChunkSize < 0 {
		return errors.Errorf("scan.chunk_size must not be negative, got %d", cfg.Scan.ChunkSize)
	}
	if cfg.Scan.ChunkSize == 0 {
		cfg.Scan.ChunkSize = scan.DefaultChunkSize
	}

	if cfg.Scan.HighlightColor == "" {
		cfg.Scan.HighlightColor = string(document.ColorYellow)
	}
	if _, err := document.ParseColor(cfg.Scan.HighlightColor); err != nil {
		return errors.Errorf("scan.highlight_color: %w", err)
	}

	switch cfg.Scan.PhraseSource {
	case "":
		cfg.Scan.PhraseSource = PhraseSourceDictionary
	case PhraseSourceDictionary, PhraseSourceAutocorrect:
	default:
		return errors.Errorf("scan.phrase_source must be %q or %q, got %q",
			PhraseSourceDictionary, PhraseSourceAutocorrect, cfg.Scan.PhraseSource)
	}

	// Clean up paths
	if cfg.Dictionary.Source != "" {
		cfg.Dictionary.Source = filepath.Clean(cfg.Dictionary.Source)
	}
	if cfg.Dictionary.CachePath != "" {
		cfg.Dictionary.CachePath = filepath.Clean(cfg.Dictionary.CachePath)
	}
	if cfg.Autocorrect.Database != "" && cfg.Autocorrect.Database != ":memory:" {
		cfg.Autocorrect.Database = filepath.Clean(cfg.Autocorrect.Database)
	}

	return nil
}

// Color returns the validated highlight color
func (cfg *Config) Color() document.Color {
	c, err := document.ParseColor(cfg.Scan.HighlightColor)
	if err != nil {
		return document.ColorYellow
	}
	return c
}

// 📂 ResolvePaths fills empty cache and database paths with per-user
// locations
func (cfg *Config) ResolvePaths() error {
	if cfg.Dictionary.CachePath != "" && cfg.Autocorrect.Database != "" {
		return nil
	}
	dir, err := DataDir()
	if err != nil {
		return err
	}
	if cfg.Dictionary.CachePath == "" {
		cachePath, err := state.DefaultPath()
		if err != nil {
			return err
		}
		cfg.Dictionary.CachePath = cachePath
	}
	if cfg.Autocorrect.Database == "" {
		cfg.Autocorrect.Database = filepath.Join(dir, "autocorrect.db")
	}
	return nil
}

// DataDir is the per-user application directory
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, appDir), nil
}

// DefaultPath is where the config file is looked up when none is given
func DefaultPath() string {
	dir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	source := cfg.Dictionary.Source
	if source == "" {
		source = "embedded"
	}
	return fmt.Sprintf("dictionary=%s phrases=%s chunk=%d color=%s", source, cfg.Scan.PhraseSource, cfg.Scan.ChunkSize, cfg.Scan.HighlightColor)
}
