// ABOUTME: Tests for the SQLite key/value backend
// ABOUTME: Uses temp-dir databases for isolated tests
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "clarity.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestOpenCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "clarity.db")

	kv, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer kv.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var mode string
	if err := kv.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenInvalidPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	// A regular file where a directory is expected cannot be created
	if _, err := Open(filepath.Join(blocker, "sub", "clarity.db")); err == nil {
		t.Error("Expected error for invalid path, but Open succeeded")
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for i := 0; i < 2; i++ {
		if err := InitSchema(db); err != nil {
			t.Fatalf("InitSchema run %d failed: %v", i+1, err)
		}
	}

	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv_store'").Scan(&name); err != nil {
		t.Errorf("Table kv_store not found: %v", err)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	kv := openTestKV(t)

	if err := kv.Set([]byte("clarity/interactions"), []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set([]byte("clarity/interactions"), []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	value, err := kv.Get([]byte("clarity/interactions"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `[{"id":"x"}]` {
		t.Errorf("Expected overwritten value, got %s", value)
	}
}

func TestGetMissingKey(t *testing.T) {
	kv := openTestKV(t)

	value, err := kv.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("Missing key should not error: %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil value, got %q", value)
	}
}

func TestDeleteAndKeys(t *testing.T) {
	kv := openTestKV(t)

	for _, k := range []string{"b", "a", "c"} {
		if err := kv.Set([]byte(k), []byte("v")); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}
	if err := kv.Delete([]byte("b")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := kv.Delete([]byte("never-existed")); err != nil {
		t.Errorf("Deleting a missing key should not error: %v", err)
	}

	keys, err := kv.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || string(keys[0]) != "a" || string(keys[1]) != "c" {
		t.Errorf("Expected keys [a c], got %q", keys)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clarity.db")

	kv, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := kv.Set([]byte("k"), []byte("persisted")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	kv.Close()

	kv, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer kv.Close()

	value, err := kv.Get([]byte("k"))
	if err != nil || string(value) != "persisted" {
		t.Errorf("Expected persisted value, got %q (err %v)", value, err)
	}
}
