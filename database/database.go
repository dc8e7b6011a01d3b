// Package database persists cache snapshots in SQLite so a restart does not
// start from an empty cache.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

// CacheRecord is one serialized cache entry.
type CacheRecord struct {
	Key      string
	Payload  []byte
	ExpireAt time.Time
}

// New opens (creating if needed) the SQLite database at dbPath.
func New(dbPath string) (*Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.WithFields(log.Fields{"module": "database"}).Infof("Database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cache_entries (
			cache_key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			expire_at INTEGER NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_expire_at ON cache_entries(expire_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// SaveCacheSnapshot replaces the stored snapshot with records. Their order is
// kept and returned as-is by LoadCacheSnapshot.
func (d *Database) SaveCacheSnapshot(records []CacheRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO cache_entries (cache_key, payload, expire_at, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(r.Key, r.Payload, r.ExpireAt.UnixMilli(), i); err != nil {
			return fmt.Errorf("failed to save cache entry %s: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadCacheSnapshot returns the records that are still live at now, in the
// order they were saved.
func (d *Database) LoadCacheSnapshot(now time.Time) ([]CacheRecord, error) {
	rows, err := d.db.Query(
		`SELECT cache_key, payload, expire_at FROM cache_entries WHERE expire_at > ? ORDER BY position ASC`,
		now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var records []CacheRecord
	for rows.Next() {
		var r CacheRecord
		var expireAt int64
		if err := rows.Scan(&r.Key, &r.Payload, &expireAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		r.ExpireAt = time.UnixMilli(expireAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
