package badgertree

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/kvtree"
	"github.com/safing/treebase/log"
)

// Badger is a kvtree backend stored in a badger database.
type Badger struct {
	db *badger.DB
}

func init() {
	_ = tree.Register(config.BackendBadger, Open)
}

// Open opens the badger tree at the configured location.
func Open(_ context.Context, settings *config.Settings) (tree.App, error) {
	if settings.Location == "" {
		return nil, errors.New("badgertree: location is required")
	}
	format, err := kvtree.ParseFormat(settings.Format)
	if err != nil {
		return nil, err
	}

	b, err := NewBadger(settings.Location)
	if err != nil {
		return nil, err
	}
	return tree.NewStoreApp(kvtree.New(b, format)), nil
}

// NewBadger opens/creates a badger database in the given directory.
func NewBadger(location string) (*Badger, error) {
	if err := os.MkdirAll(location, 0o700); err != nil {
		return nil, fmt.Errorf("badgertree: failed to create location: %w", err)
	}

	opts := badger.DefaultOptions(location).
		WithLogger(&log.Adapter{Prefix: "badgertree: "})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgertree: failed to open database: %w", err)
	}

	return &Badger{
		db: db,
	}, nil
}

// View runs a read-only transaction.
func (b *Badger) View(fn func(txn kvtree.Txn) error) error {
	return b.db.View(func(t *badger.Txn) error {
		return fn(&txn{txn: t})
	})
}

// Update runs a read-write transaction.
func (b *Badger) Update(fn func(txn kvtree.Txn) error) error {
	return b.db.Update(func(t *badger.Txn) error {
		return fn(&txn{txn: t})
	})
}

// Maintain runs a light maintenance operation on the database.
func (b *Badger) Maintain() error {
	err := b.db.RunValueLogGC(0.7)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

type txn struct {
	txn *badger.Txn
}

func (t *txn) Get(key string) ([]byte, error) {
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if item.IsDeletedOrExpired() {
		return nil, nil
	}
	return item.ValueCopy(nil)
}

func (t *txn) Put(key string, value []byte) error {
	return t.txn.Set([]byte(key), value)
}

func (t *txn) Delete(key string) error {
	return t.txn.Delete([]byte(key))
}

func (t *txn) Scan(prefix string, fn func(key string, value []byte) error) error {
	p := []byte(prefix)
	opts := badger.DefaultIteratorOptions

	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		if item.IsDeletedOrExpired() {
			continue
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(string(item.KeyCopy(nil)), value); err != nil {
			return err
		}
	}
	return nil
}
