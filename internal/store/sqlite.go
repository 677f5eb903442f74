// internal/store/sqlite.go
//
// SQLite helpers and the sqlite-backed Store.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying *.sql migrations from an fs.FS (idempotent, recorded in
//     _migrations).
//   - Persisting session records as JSON snapshots in the sessions table.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// OpenSQLite opens (and creates if missing) a SQLite database file. The
// parent directory of a relative path such as ./data/app.db is created.
func OpenSQLite(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies every *.sql file in migrations, in lexical order, each in
// its own transaction. Files already listed in _migrations are skipped.
func Migrate(ctx context.Context, db *sql.DB, migrations fs.FS) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(migrations, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store over an already-migrated database.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Save(ctx context.Context, rec Record) error {
	snap, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, puzzle_id, owner, daily_date, mode, snapshot, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            snapshot   = excluded.snapshot,
            elapsed_ms = excluded.elapsed_ms,
            updated_at = CURRENT_TIMESTAMP`,
		rec.ID, rec.PuzzleID, rec.Owner, rec.DailyDate, rec.Snapshot.Mode.String(), string(snap), rec.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (Record, error) {
	var (
		rec     Record
		snap    string
		updated time.Time
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, puzzle_id, owner, daily_date, snapshot, elapsed_ms, updated_at
        FROM sessions WHERE id=?`, id,
	).Scan(&rec.ID, &rec.PuzzleID, &rec.Owner, &rec.DailyDate, &snap, &rec.ElapsedMs, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := json.NewDecoder(strings.NewReader(snap)).Decode(&rec.Snapshot); err != nil {
		return Record{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	rec.UpdatedAt = updated.UTC()
	return rec, nil
}
