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

package dictionary

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

//go:embed data/abbreviations.csv
var embedded embed.FS

const embeddedPath = "data/abbreviations.csv"

// 🔌 Source is the tabular source-of-record for the dictionary. Rows include
// the header row.
type Source interface {
	// Name identifies the source in logs
	Name() string
	// Fingerprint changes whenever the source content may have changed
	Fingerprint(ctx context.Context) (string, error)
	// Rows returns every row of the first sheet
	Rows(ctx context.Context) ([][]string, error)
}

// 🎯 SourceFromPath picks a source by file extension. An empty path selects
// the embedded default table.
func SourceFromPath(fs afero.Fs, path string) (Source, error) {
	if path == "" {
		return Embedded(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSource(fs, path, ','), nil
	case ".tsv":
		return NewCSVSource(fs, path, '\t'), nil
	case ".xlsx", ".xlsm":
		return NewXLSXSource(fs, path), nil
	default:
		return nil, errors.Errorf("unsupported dictionary source %q", path)
	}
}

// 📦 Embedded returns the table compiled into the binary
func Embedded() Source {
	return &csvSource{
		name:  "embedded:" + embeddedPath,
		comma: ',',
		open: func() (io.ReadCloser, error) {
			return embedded.Open(embeddedPath)
		},
		fingerprint: func() (string, error) {
			data, err := embedded.ReadFile(embeddedPath)
			if err != nil {
				return "", errors.Errorf("reading embedded table: %w", err)
			}
			sum := sha256.Sum256(data)
			return "sha256:" + hex.EncodeToString(sum[:]), nil
		},
	}
}

// 📄 NewCSVSource reads a delimited text file
func NewCSVSource(fs afero.Fs, path string, comma rune) Source {
	return &csvSource{
		name:  path,
		comma: comma,
		open: func() (io.ReadCloser, error) {
			return fs.Open(path)
		},
		fingerprint: func() (string, error) {
			return statFingerprint(fs, path)
		},
	}
}

// NewReaderSource reads delimited text from memory
func NewReaderSource(name string, data []byte, comma rune) Source {
	return &csvSource{
		name:  name,
		comma: comma,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		fingerprint: func() (string, error) {
			sum := sha256.Sum256(data)
			return "sha256:" + hex.EncodeToString(sum[:]), nil
		},
	}
}

type csvSource struct {
	name        string
	comma       rune
	open        func() (io.ReadCloser, error)
	fingerprint func() (string, error)
}

func (s *csvSource) Name() string {
	return s.name
}

func (s *csvSource) Fingerprint(ctx context.Context) (string, error) {
	return s.fingerprint()
}

func (s *csvSource) Rows(ctx context.Context) ([][]string, error) {
	rc, err := s.open()
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", s.name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.Comma = s.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", s.name, err)
	}
	return rows, nil
}

// 📊 NewXLSXSource reads the first worksheet of a spreadsheet
func NewXLSXSource(fs afero.Fs, path string) Source {
	return &xlsxSource{fs: fs, path: path}
}

type xlsxSource struct {
	fs   afero.Fs
	path string
}

func (s *xlsxSource) Name() string {
	return s.path
}

func (s *xlsxSource) Fingerprint(ctx context.Context) (string, error) {
	return statFingerprint(s.fs, s.path)
}

func (s *xlsxSource) Rows(ctx context.Context) ([][]string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	book, err := excelize.OpenReader(f)
	if err != nil {
		return nil, errors.Errorf("reading workbook %s: %w", s.path, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("workbook %s has no sheets", s.path)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func statFingerprint(fs afero.Fs, path string) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", errors.Errorf("stat %s: %w", path, err)
	}
	return fmt.Sprintf("stat:%s:%d:%d", filepath.Clean(path), info.Size(), info.ModTime().UnixNano()), nil
}
