// Package boltdb implements account storage on a single-file bbolt database.
// It is the embedded alternative to the SQLite backend for deployments
// without a need for SQL tooling.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketAccounts   = []byte("accounts")    // account ID -> JSON record
	bucketEmailIndex = []byte("email_index") // email -> account ID
)

// Storage represents the bbolt account storage implementation.
type Storage struct {
	db *bbolt.DB
}

// New creates a new bbolt storage instance.
// dbPath is the path to the database file; it is created if missing.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets creates the required buckets if they do not exist yet.
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("failed to create accounts bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketEmailIndex); err != nil {
			return fmt.Errorf("failed to create email index bucket: %w", err)
		}

		return nil
	})
}
