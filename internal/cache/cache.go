// Package cache stores fetched filing documents on disk so repeated
// scans of the same ticker do not refetch from EDGAR.
package cache

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"form4scan/internal/config"
)

const dbName = "filings.db"

type Store struct {
	db *sql.DB
}

// Open creates or opens the filing cache under dir. The directory is
// created if missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbName))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS filings (
		url        TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the cached body for url if present and younger than the
// max cache age.
func (s *Store) Get(url string) (string, bool) {
	var body, fetchedAt string
	err := s.db.QueryRow(
		`SELECT body, fetched_at FROM filings WHERE url = ?`, url,
	).Scan(&body, &fetchedAt)
	if err != nil {
		return "", false
	}
	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || time.Since(t) > config.CacheMaxAge {
		return "", false
	}
	return body, true
}

// Put stores a fetched body. Cache write failures are logged, never
// surfaced: a scan must not fail because the cache did.
func (s *Store) Put(url, body string) {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO filings (url, body, fetched_at) VALUES (?, ?, ?)`,
		url, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		slog.Warn("filing cache write failed", "url", url, "err", err)
	}
}

// Prune drops entries older than the max cache age.
func (s *Store) Prune() {
	cutoff := time.Now().UTC().Add(-config.CacheMaxAge).Format(time.RFC3339)
	if _, err := s.db.Exec(`DELETE FROM filings WHERE fetched_at < ?`, cutoff); err != nil {
		slog.Warn("filing cache prune failed", "err", err)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
