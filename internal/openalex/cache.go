// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is a SQLite-backed lookup cache keyed by operation and filter
// expression. Entries older than ttl are treated as misses; a zero ttl
// keeps entries forever.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the cache database at path, creating parent
// directories as needed.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS lookups (
		op TEXT NOT NULL,
		term TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (op, term)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached response for an operation and term. The second
// return value reports whether a live entry existed; expired entries are
// deleted and reported as misses.
func (c *Cache) Get(op, term string) ([]byte, bool, error) {
	var response []byte
	var createdAt string
	err := c.db.QueryRow(
		`SELECT response, created_at FROM lookups WHERE op = ? AND term = ?`, op, term,
	).Scan(&response, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if c.ttl > 0 {
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil || time.Since(created) > c.ttl {
			_, _ = c.db.Exec(`DELETE FROM lookups WHERE op = ? AND term = ?`, op, term)
			return nil, false, nil
		}
	}
	return response, true, nil
}

// Put stores (or replaces) the cached response for an operation and term.
func (c *Cache) Put(op, term string, response []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO lookups (op, term, response, created_at) VALUES (?, ?, ?, ?)`,
		op, term, response, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
