package state

import (
	"fmt"
	"sort"
	"sync"

	"nftswap/storage"
)

// Txn is a write-buffering overlay over the backing database. Reads fall
// through to the base when the overlay has no entry; writes stay in memory
// until Commit flushes them in one pass. Discarding a Txn leaves the base
// untouched, which is what gives each engine operation its all-or-nothing
// semantics.
type Txn struct {
	mu        sync.Mutex
	base      storage.Database
	writes    map[string][]byte
	committed bool
}

// NewTxn starts an overlay over the database.
func NewTxn(base storage.Database) *Txn {
	return &Txn{
		base:   base,
		writes: make(map[string][]byte),
	}
}

func (t *Txn) Get(key []byte) ([]byte, error) {
	t.mu.Lock()
	if value, ok := t.writes[string(key)]; ok {
		t.mu.Unlock()
		return append([]byte(nil), value...), nil
	}
	t.mu.Unlock()
	return t.base.Get(key)
}

func (t *Txn) Has(key []byte) (bool, error) {
	t.mu.Lock()
	if _, ok := t.writes[string(key)]; ok {
		t.mu.Unlock()
		return true, nil
	}
	t.mu.Unlock()
	return t.base.Has(key)
}

func (t *Txn) Put(key, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed {
		return fmt.Errorf("state: write to committed txn")
	}
	t.writes[string(key)] = append([]byte(nil), value...)
	return nil
}

// Pending reports the number of buffered writes.
func (t *Txn) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.writes)
}

// Commit flushes the buffered writes to the base database as one atomic
// batch. Either every buffered write lands or none does, so a storage fault
// mid-commit cannot leave a half-applied operation behind.
func (t *Txn) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed {
		return fmt.Errorf("state: txn already committed")
	}
	keys := make([]string, 0, len(t.writes))
	for key := range t.writes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]storage.BatchEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, storage.BatchEntry{Key: []byte(key), Value: t.writes[key]})
	}
	if err := t.base.WriteBatch(entries); err != nil {
		return fmt.Errorf("state: commit batch: %w", err)
	}
	t.committed = true
	t.writes = make(map[string][]byte)
	return nil
}

// Discard drops all buffered writes.
func (t *Txn) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = make(map[string][]byte)
}
