package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epoxy.db")

	for i := 0; i < 2; i++ {
		conn, err := InitDB(path)
		if err != nil {
			t.Fatalf("InitDB run %d: %v", i+1, err)
		}
		var name string
		err = conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='session_events'`).Scan(&name)
		if err != nil {
			t.Fatalf("session_events missing: %v", err)
		}
		if err := conn.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestInitDB_BadPath(t *testing.T) {
	if _, err := InitDB(filepath.Join(t.TempDir(), "missing", "dir", "x.db")); err == nil {
		t.Fatalf("expected error for unreachable path")
	}
}
