// ABOUTME: Local snapshot cache backed by Badger
// ABOUTME: Persists versioned per-store state so a restart keeps working data
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

// snapshotVersion is the on-disk format version. Bump it when a persisted
// state shape changes; stale snapshots are discarded on load instead of
// being silently rehydrated into the wrong shape.
const snapshotVersion = 1

var (
	// ErrNotFound means no snapshot exists under the key.
	ErrNotFound = errors.New("cache: snapshot not found")

	// ErrSnapshotVersion means a snapshot exists but was written by a
	// different format version and was not loaded.
	ErrSnapshotVersion = errors.New("cache: snapshot version mismatch")
)

// Store wraps a Badger database holding one snapshot per entity store.
type Store struct {
	db *badger.DB
	mu sync.RWMutex
}

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	State   json.RawMessage `json:"state"`
}

// Open opens (or creates) the cache at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save serializes state under key, wrapped in a versioned envelope.
func (s *Store) Save(key string, state interface{}) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	env := envelope{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		State:   raw,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot envelope %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
}

// Load reads the snapshot under key into state. Returns ErrNotFound when the
// key is absent and ErrSnapshotVersion when the stored envelope was written
// by a different format version (the stale snapshot is left in place for the
// caller to delete or inspect).
func (s *Store) Load(key string, state interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("failed to parse snapshot envelope %s: %w", key, err)
	}
	if env.Version != snapshotVersion {
		return ErrSnapshotVersion
	}
	if err := json.Unmarshal(env.State, state); err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot under key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Keys returns every snapshot key currently stored.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// Reset wipes all snapshots (use with caution!)
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DropAll()
}
