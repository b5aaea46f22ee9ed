package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestMemDBWriteBatch(t *testing.T) {
	db := NewMemDB()
	entries := []BatchEntry{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}
	if err := db.WriteBatch(entries); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	for _, entry := range entries {
		got, err := db.Get(entry.Key)
		if err != nil {
			t.Fatalf("get %q: %v", entry.Key, err)
		}
		if !bytes.Equal(got, entry.Value) {
			t.Fatalf("value mismatch for %q: %q", entry.Key, got)
		}
	}
}

func TestLevelDBWriteBatch(t *testing.T) {
	db, err := NewLevelDB(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open leveldb: %v", err)
	}
	defer db.Close()

	entries := []BatchEntry{
		{Key: []byte("pool/a"), Value: []byte("one")},
		{Key: []byte("pool/b"), Value: []byte("two")},
	}
	if err := db.WriteBatch(entries); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	for _, entry := range entries {
		got, err := db.Get(entry.Key)
		if err != nil {
			t.Fatalf("get %q: %v", entry.Key, err)
		}
		if !bytes.Equal(got, entry.Value) {
			t.Fatalf("value mismatch for %q: %q", entry.Key, got)
		}
	}
}
