package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS imdb_metadata (
	imdb_id    TEXT PRIMARY KEY,
	director   TEXT NOT NULL DEFAULT '',
	budget     REAL NOT NULL DEFAULT 0,
	gross      REAL NOT NULL DEFAULT 0,
	runtime    INTEGER NOT NULL DEFAULT 0,
	fetched_at TEXT NOT NULL
);`

// SQLiteStore keeps one row per external key.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads every row.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT imdb_id, director, budget, gross, runtime FROM imdb_metadata`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]Record)
	for rows.Next() {
		var key string
		var rec Record
		if err := rows.Scan(&key, &rec.Director, &rec.Budget, &rec.Gross, &rec.Runtime); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records[key] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Save upserts rec under key.
func (s *SQLiteStore) Save(ctx context.Context, key string, rec Record, _ map[string]Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imdb_metadata (imdb_id, director, budget, gross, runtime, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(imdb_id) DO UPDATE SET
			director = excluded.director,
			budget = excluded.budget,
			gross = excluded.gross,
			runtime = excluded.runtime,
			fetched_at = excluded.fetched_at`,
		key, rec.Director, rec.Budget, rec.Gross, rec.Runtime,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
