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
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// swapSource lets a test change the underlying source between loads
type swapSource struct {
	Source
}

// failingSource has a fingerprint but no readable rows
type failingSource struct {
	fingerprint string
}

func (f *failingSource) Name() string { return "failing" }

func (f *failingSource) Fingerprint(ctx context.Context) (string, error) {
	return f.fingerprint, nil
}

func (f *failingSource) Rows(ctx context.Context) ([][]string, error) {
	return nil, errors.New("source unavailable")
}

func mustFingerprint(t *testing.T, src Source) string {
	t.Helper()
	fp, err := src.Fingerprint(context.Background())
	require.NoError(t, err, "fingerprint")
	return fp
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		r := row
		require.NoError(t, book.SetSheetRow(sheet, cell, &r), "writing row %d", i)
	}

	path := filepath.Join(t.TempDir(), "abbreviations.xlsx")
	require.NoError(t, book.SaveAs(path), "saving workbook")
	return path
}
