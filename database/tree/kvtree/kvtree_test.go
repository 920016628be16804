package kvtree

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/treetest"
	"github.com/safing/treebase/formats/dsd"
)

type mapBackend struct {
	lock sync.Mutex
	data map[string][]byte
}

func newMapBackend() *mapBackend {
	return &mapBackend{data: make(map[string][]byte)}
}

func (mb *mapBackend) View(fn func(txn Txn) error) error {
	mb.lock.Lock()
	defer mb.lock.Unlock()
	return fn(mb)
}

func (mb *mapBackend) Update(fn func(txn Txn) error) error {
	mb.lock.Lock()
	defer mb.lock.Unlock()
	return fn(mb)
}

func (mb *mapBackend) Close() error { return nil }

func (mb *mapBackend) Get(key string) ([]byte, error) { return mb.data[key], nil }

func (mb *mapBackend) Put(key string, value []byte) error {
	mb.data[key] = value
	return nil
}

func (mb *mapBackend) Delete(key string) error {
	delete(mb.data, key)
	return nil
}

func (mb *mapBackend) Scan(prefix string, fn func(key string, value []byte) error) error {
	keys := make([]string, 0, len(mb.data))
	for key := range mb.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := fn(key, mb.data[key]); err != nil {
			return err
		}
	}
	return nil
}

func TestKVTree(t *testing.T) {
	t.Parallel()

	for _, format := range []dsd.SerializationFormat{dsd.JSON, dsd.MsgPack, dsd.CBOR} {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			treetest.Run(t, tree.NewStoreApp(New(newMapBackend(), format)))
		})
	}
}

func TestBlobReconciliation(t *testing.T) {
	t.Parallel()

	kv := New(newMapBackend(), dsd.AUTO)

	// Records are stored as separate blobs.
	require.NoError(t, kv.Write([]string{"lorem", "0"}, map[string]interface{}{"name": "Charlie"}))
	require.NoError(t, kv.Write([]string{"lorem", "1"}, map[string]interface{}{"name": "Mary"}))
	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"/lorem/0", "/lorem/1"}, keys)

	// Writing below a blob updates it.
	require.NoError(t, kv.Write([]string{"lorem", "0", "age"}, float64(24)))
	keys, err = kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"/lorem/0", "/lorem/1"}, keys)
	value, err := kv.Read([]string{"lorem", "0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Charlie", "age": float64(24)}, value)

	// Reading above blobs assembles them.
	value, err = kv.Read([]string{"lorem"})
	require.NoError(t, err)
	assert.Len(t, value, 2)

	// Writing above blobs replaces them.
	require.NoError(t, kv.Write([]string{"lorem"}, map[string]interface{}{"2": map[string]interface{}{"name": "John"}}))
	keys, err = kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"/lorem"}, keys)
	value, err = kv.Read([]string{"lorem", "2", "name"})
	require.NoError(t, err)
	assert.Equal(t, "John", value)

	// Removing the last value of a blob removes the blob.
	require.NoError(t, kv.Write([]string{"lorem", "2", "name"}, nil))
	keys, err = kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Root blob.
	require.NoError(t, kv.Write(nil, map[string]interface{}{"a": "b"}))
	value, err = kv.Read([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "b", value)
	require.NoError(t, kv.Write([]string{"a"}, nil))
	value, err = kv.Read(nil)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, dsd.DefaultSerializationFormat, format)

	format, err = ParseFormat("msgpack")
	require.NoError(t, err)
	assert.Equal(t, dsd.MsgPack, format)

	_, err = ParseFormat("raw")
	assert.ErrorIs(t, err, ErrRawFormat)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
