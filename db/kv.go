// ABOUTME: Local SQLite key/value backend for the client and interaction stores
// ABOUTME: Opens the database in WAL mode and exposes Get/Set/Delete/Keys
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// KV is a key/value store persisted in a single SQLite table.
type KV struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &KV{db: db}, nil
}

// DB exposes the underlying handle for diagnostics.
func (k *KV) DB() *sql.DB {
	return k.db
}

// Close closes the database.
func (k *KV) Close() error {
	return k.db.Close()
}

// Get returns the value stored under key. A missing key yields nil, nil.
func (k *KV) Get(key []byte) ([]byte, error) {
	var value []byte
	err := k.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts value under key.
func (k *KV) Set(key, value []byte) error {
	_, err := k.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, string(key), value, time.Now().UTC())
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(key []byte) error {
	_, err := k.db.Exec(`DELETE FROM kv_store WHERE key = ?`, string(key))
	return err
}

// Keys lists every stored key in lexical order.
func (k *KV) Keys() ([][]byte, error) {
	rows, err := k.db.Query(`SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys [][]byte
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, []byte(key))
	}
	return keys, rows.Err()
}
