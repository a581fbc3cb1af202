// Package store persists the last good screen states so the app can render
// something useful while the server is unreachable.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when no snapshot exists under a key.
var ErrNotFound = errors.New("store: snapshot not found")

var snapshotBucket = []byte("snapshots")

// entry wraps the cached payload with its save time so callers can tell the
// user how stale the data is.
type entry struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// Store is a small key/value cache on a single bolt file.
type Store struct {
	db *bolt.DB
}

// DefaultPath is where the cache file lives unless overridden.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, "jtv", "cache.db")
}

// Open opens (or creates) the cache file. The open times out instead of
// blocking forever when another process holds the file lock.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the cache file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves a snapshot under the key, stamping it with the current time.
func (s *Store) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	wrapped, err := json.Marshal(entry{SavedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to wrap snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put([]byte(key), wrapped)
	})
}

// Get loads a snapshot into out and returns when it was saved.
func (s *Store) Get(key string, out any) (time.Time, error) {
	var wrapped []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(snapshotBucket).Get([]byte(key)); v != nil {
			wrapped = append(wrapped, v...)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	if wrapped == nil {
		return time.Time{}, ErrNotFound
	}

	var e entry
	if err := json.Unmarshal(wrapped, &e); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}
	return e.SavedAt, nil
}

// Delete removes a snapshot. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Delete([]byte(key))
	})
}

// Clear drops every snapshot, e.g. after logout.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(snapshotBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
}
