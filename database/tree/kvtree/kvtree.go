// Package kvtree stores a tree in a flat, ordered key-value store.
//
// Values are stored as blobs at the path they were written to. A blob never
// has another blob below it: writing below a blob updates the blob, while
// writing above blobs replaces them. Reading assembles the value from the
// blob at or above the path, or from all blobs below it.
package kvtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/formats/dsd"
)

// Txn is a transaction of a Backend.
type Txn interface {
	// Get returns the value of the key, or nil if it does not exist.
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	// Scan calls fn for every key with the given prefix, in key order.
	Scan(prefix string, fn func(key string, value []byte) error) error
}

// Backend is an ordered key-value store with transactions.
type Backend interface {
	View(fn func(txn Txn) error) error
	Update(fn func(txn Txn) error) error
	Close() error
}

// ErrRawFormat is returned when the raw format is configured, which cannot
// hold structured values.
var ErrRawFormat = errors.New("raw format cannot store tree values")

// KVTree is a tree.Store on top of a Backend.
type KVTree struct {
	backend Backend
	format  dsd.SerializationFormat
}

// New returns a tree stored in backend, encoding values with format.
func New(backend Backend, format dsd.SerializationFormat) *KVTree {
	if format == dsd.AUTO {
		format = dsd.DefaultSerializationFormat
	}
	return &KVTree{
		backend: backend,
		format:  format,
	}
}

// ParseFormat returns the serialization format to store values with.
func ParseFormat(name string) (dsd.SerializationFormat, error) {
	format, err := dsd.ParseFormat(name)
	if err != nil {
		return 0, err
	}
	switch format {
	case dsd.RAW:
		return 0, ErrRawFormat
	case dsd.AUTO:
		return dsd.DefaultSerializationFormat, nil
	default:
		return format, nil
	}
}

func encodeKey(segments []string) string {
	return tree.JoinPath(segments...)
}

func childPrefix(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return encodeKey(segments) + "/"
}

func (kv *KVTree) encode(value interface{}) ([]byte, error) {
	return dsd.Dump(value, kv.format)
}

func (kv *KVTree) decode(data []byte) (interface{}, error) {
	var value interface{}
	if _, err := dsd.Load(data, &value); err != nil {
		return nil, err
	}
	return tree.Normalize(value)
}

// Read returns the value at the given segments.
func (kv *KVTree) Read(segments []string) (value interface{}, err error) {
	err = kv.backend.View(func(txn Txn) error {
		// blob at or above the path
		for i := 0; i <= len(segments); i++ {
			data, err := txn.Get(encodeKey(segments[:i]))
			if err != nil {
				return err
			}
			if data == nil {
				continue
			}
			blob, err := kv.decode(data)
			if err != nil {
				return fmt.Errorf("kvtree: failed to decode %s: %w", encodeKey(segments[:i]), err)
			}
			value = tree.Lookup(blob, segments[i:])
			return nil
		}

		// blobs below the path
		root := encodeKey(nil)
		return txn.Scan(childPrefix(segments), func(key string, data []byte) error {
			if key == root {
				return nil
			}
			blob, err := kv.decode(data)
			if err != nil {
				return fmt.Errorf("kvtree: failed to decode %s: %w", key, err)
			}
			value = tree.Assign(value, tree.SplitPath(key)[len(segments):], blob)
			return nil
		})
	})
	return value, err
}

// Write replaces the value at the given segments.
func (kv *KVTree) Write(segments []string, value interface{}) error {
	return kv.backend.Update(func(txn Txn) error {
		// update blob above the path
		for i := 0; i < len(segments); i++ {
			key := encodeKey(segments[:i])
			data, err := txn.Get(key)
			if err != nil {
				return err
			}
			if data == nil {
				continue
			}
			blob, err := kv.decode(data)
			if err != nil {
				return fmt.Errorf("kvtree: failed to decode %s: %w", key, err)
			}
			blob = tree.Assign(blob, segments[i:], value)
			if blob == nil {
				return txn.Delete(key)
			}
			return kv.put(txn, key, blob)
		}

		// replace blobs at and below the path
		key := encodeKey(segments)
		if err := txn.Delete(key); err != nil {
			return err
		}
		var below []string
		err := txn.Scan(childPrefix(segments), func(k string, _ []byte) error {
			if k != key {
				below = append(below, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range below {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}

		if value == nil {
			return nil
		}
		return kv.put(txn, key, value)
	})
}

func (kv *KVTree) put(txn Txn, key string, value interface{}) error {
	data, err := kv.encode(value)
	if err != nil {
		return fmt.Errorf("kvtree: failed to encode %s: %w", key, err)
	}
	return txn.Put(key, data)
}

// Close closes the backend.
func (kv *KVTree) Close() error {
	return kv.backend.Close()
}

// Keys returns all keys stored in the backend, for inspection.
func (kv *KVTree) Keys() (keys []string, err error) {
	err = kv.backend.View(func(txn Txn) error {
		return txn.Scan("", func(key string, _ []byte) error {
			if strings.HasPrefix(key, "/") {
				keys = append(keys, key)
			}
			return nil
		})
	})
	return keys, err
}
