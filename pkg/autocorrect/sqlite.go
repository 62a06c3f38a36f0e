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

package autocorrect

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	entriesTable  = "autocorrect_entries"
	settingsTable = "autocorrect_settings"

	settingReplaceText = "replace_text"
)

// goose keeps its base FS and dialect in package globals
var gooseMu sync.Mutex

var _ Table = (*SQLiteTable)(nil)

// 💽 SQLiteTable keeps the autocorrect table in a sqlite database file
type SQLiteTable struct {
	db   *sql.DB
	path string
}

// 🏭 OpenSQLite opens (creating if needed) the database at path and applies
// the embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteTable, error) {
	logger := zerolog.Ctx(ctx)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Errorf("opening autocorrect database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Errorf("setting busy timeout: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("autocorrect database ready")
	return &SQLiteTable{db: db, path: path}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Path is the database location
func (t *SQLiteTable) Path() string {
	return t.path
}

func (t *SQLiteTable) Close() error {
	return t.db.Close()
}

func (t *SQLiteTable) Entries(ctx context.Context) ([]Entry, error) {
	query, args, err := squirrel.Select("name", "value").
		From(entriesTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, errors.Errorf("building query: %w", err)
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Value); err != nil {
			return nil, errors.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("listing entries: %w", err)
	}
	return out, nil
}

func (t *SQLiteTable) Upsert(ctx context.Context, name, value string) error {
	if name == "" {
		return errors.WithStack(ErrEmptyName)
	}

	query, args, err := squirrel.Insert(entriesTable).
		Columns("name", "value").
		Values(name, value).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')").
		ToSql()
	if err != nil {
		return errors.Errorf("building upsert: %w", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Errorf("upserting %q: %w", name, err)
	}
	return nil
}

func (t *SQLiteTable) Remove(ctx context.Context, name string) error {
	query, args, err := squirrel.Delete(entriesTable).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return errors.Errorf("building delete: %w", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Errorf("removing %q: %w", name, err)
	}
	return nil
}

func (t *SQLiteTable) ReplaceText(ctx context.Context) (bool, error) {
	query, args, err := squirrel.Select("value").
		From(settingsTable).
		Where(squirrel.Eq{"key": settingReplaceText}).
		ToSql()
	if err != nil {
		return false, errors.Errorf("building query: %w", err)
	}

	var raw string
	err = t.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("reading %s: %w", settingReplaceText, err)
	}

	on, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Errorf("parsing %s %q: %w", settingReplaceText, raw, err)
	}
	return on, nil
}

func (t *SQLiteTable) SetReplaceText(ctx context.Context, on bool) error {
	query, args, err := squirrel.Insert(settingsTable).
		Columns("key", "value").
		Values(settingReplaceText, strconv.FormatBool(on)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return errors.Errorf("building update: %w", err)
	}

	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Errorf("writing %s: %w", settingReplaceText, err)
	}
	return nil
}
