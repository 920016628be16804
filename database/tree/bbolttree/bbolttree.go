package bbolttree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/kvtree"
)

// FileName is the name of the database file within the location.
const FileName = "tree.bbolt"

var bucketName = []byte{0}

// BBolt is a kvtree backend stored in a bbolt database.
type BBolt struct {
	db *bbolt.DB
}

func init() {
	_ = tree.Register(config.BackendBBolt, Open)
}

// Open opens the bbolt tree at the configured location.
func Open(_ context.Context, settings *config.Settings) (tree.App, error) {
	if settings.Location == "" {
		return nil, errors.New("bbolttree: location is required")
	}
	format, err := kvtree.ParseFormat(settings.Format)
	if err != nil {
		return nil, err
	}

	b, err := NewBBolt(settings.Location)
	if err != nil {
		return nil, err
	}
	return tree.NewStoreApp(kvtree.New(b, format)), nil
}

// NewBBolt opens/creates a bbolt database in the given directory.
func NewBBolt(location string) (*BBolt, error) {
	if err := os.MkdirAll(location, 0o700); err != nil {
		return nil, fmt.Errorf("bbolttree: failed to create location: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(location, FileName), 0o600, &bbolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("bbolttree: failed to open database: %w", err)
	}

	// Create bucket
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BBolt{
		db: db,
	}, nil
}

// View runs a read-only transaction.
func (b *BBolt) View(fn func(txn kvtree.Txn) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return fn(&txn{bucket: tx.Bucket(bucketName)})
	})
}

// Update runs a read-write transaction.
func (b *BBolt) Update(fn func(txn kvtree.Txn) error) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(&txn{bucket: tx.Bucket(bucketName)})
	})
}

// Close closes the database.
func (b *BBolt) Close() error {
	return b.db.Close()
}

type txn struct {
	bucket *bbolt.Bucket
}

func (t *txn) Get(key string) ([]byte, error) {
	value := t.bucket.Get([]byte(key))
	if value == nil {
		return nil, nil
	}

	// copy data, it is only valid within the transaction
	duplicate := make([]byte, len(value))
	copy(duplicate, value)
	return duplicate, nil
}

func (t *txn) Put(key string, value []byte) error {
	return t.bucket.Put([]byte(key), value)
}

func (t *txn) Delete(key string) error {
	return t.bucket.Delete([]byte(key))
}

func (t *txn) Scan(prefix string, fn func(key string, value []byte) error) error {
	p := []byte(prefix)
	c := t.bucket.Cursor()
	for key, value := c.Seek(p); key != nil && bytes.HasPrefix(key, p); key, value = c.Next() {
		// copy data, it is only valid within the transaction
		duplicate := make([]byte, len(value))
		copy(duplicate, value)

		if err := fn(string(key), duplicate); err != nil {
			return err
		}
	}
	return nil
}
