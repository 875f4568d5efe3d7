// Package bbolt implements the ports.ProfileStore interface using bbolt
// (embedded B+ tree). Each profile gets its own top-level bucket holding one
// JSON-serialized record. Writes are transactional — a crash mid-write
// cannot corrupt previously committed data, and a record is always replaced
// as a whole. The bbolt file lock also rejects a second concurrent process,
// which enforces the single-writer assumption at open time.
package bbolt

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/doublegate/rustopt/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// keyRecord holds the full profile record inside each profile bucket.
var keyRecord = []byte("record")

// Store implements ports.ProfileStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save overwrites the full record for a profile in one transaction.
func (s *Store) Save(name string, p *ports.Profile) error {
	if name == "" {
		return fmt.Errorf("empty profile name")
	}
	if p == nil {
		return fmt.Errorf("nil profile")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		return b.Put(keyRecord, data)
	})
}

// Load retrieves a profile record.
// Returns nil, nil if the profile has never been saved.
func (s *Store) Load(name string) (*ports.Profile, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyRecord); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var p ports.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile %q: %w", name, err)
	}
	return &p, nil
}

// Delete removes a profile record.
// Idempotent: deleting a nonexistent profile is not an error.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Profiles lists all stored profile names, sorted.
func (s *Store) Profiles() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
