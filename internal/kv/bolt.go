package kv

import (
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	boltFileName   = "lovetrack.bolt"
	boltBucketSlot = "slots" // key: slot name -> serialized value
)

// BoltStore keeps every slot in a single bbolt bucket.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) lovetrack.bolt under dataDir.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dir, err := prepareDir(dataDir)
	if err != nil {
		return nil, err
	}

	db, err := bbolt.Open(filepath.Join(dir, boltFileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketSlot))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get reads key from the slots bucket.
func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketSlot)).Get([]byte(key))
		if data == nil {
			return nil
		}
		// Bytes returned by Get are only valid for the life of the transaction.
		value = string(data)
		found = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, found, nil
}

// Set writes key to the slots bucket.
func (s *BoltStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketSlot)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
