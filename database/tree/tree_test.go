package tree

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	lock sync.Mutex
	root interface{}
}

func (ms *mapStore) Read(segments []string) (interface{}, error) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	return Copy(Lookup(ms.root, segments)), nil
}

func (ms *mapStore) Write(segments []string, value interface{}) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.root = Assign(ms.root, segments, value)
	return nil
}

func (ms *mapStore) Close() error { return nil }

func TestPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"lorem", "a", "b"}, SplitPath("/lorem//a/b/"))
	assert.Empty(t, SplitPath("/"))
	assert.Equal(t, "/lorem/a", JoinPath("lorem", "a"))
	assert.Equal(t, "/", JoinPath())

	assert.NoError(t, ValidatePath("/lorem/-Nabc_12"))
	for _, invalid := range []string{"a.b", "a#", "$a", "a[0]", "tab\tkey"} {
		assert.ErrorIs(t, ValidatePath("/lorem/"+invalid), ErrInvalidPath, invalid)
	}
	assert.ErrorIs(t, ValidateKey(""), ErrInvalidKey)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	type customer struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	v, err := Normalize(map[string]interface{}{
		"customer": customer{Name: "Charlie", Age: 24},
		"empty":    map[string]interface{}{},
		"nothing":  nil,
		"nested":   map[string]interface{}{"gone": map[string]interface{}{"deeper": nil}},
		"list":     []interface{}{1, nil, "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"customer": map[string]interface{}{"name": "Charlie", "age": float64(24)},
		"list":     []interface{}{float64(1), nil, "x"},
	}, v)

	v, err = Normalize(map[string]interface{}{"a": nil})
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Normalize(map[string]interface{}{"a.b": 1})
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Normalize(make(chan int))
	assert.Error(t, err)
}

func TestAssignLookup(t *testing.T) {
	t.Parallel()

	var root interface{}
	root = Assign(root, []string{"lorem", "0", "name"}, "Charlie")
	root = Assign(root, []string{"lorem", "1", "name"}, "Mary")
	assert.Equal(t, "Charlie", Lookup(root, []string{"lorem", "0", "name"}))
	assert.Nil(t, Lookup(root, []string{"lorem", "2"}))
	assert.Nil(t, Lookup(root, []string{"lorem", "0", "name", "deeper"}))

	root = Erase(root, []string{"lorem", "0", "name"})
	assert.Nil(t, Lookup(root, []string{"lorem", "0"}), "empty parents are removed")
	root = Erase(root, []string{"lorem", "1"})
	assert.Nil(t, root)

	list := []interface{}{"a", nil, "c"}
	assert.Equal(t, "c", Lookup(list, []string{"2"}))
	assert.Nil(t, Lookup(list, []string{"x"}))
	assert.Equal(t, map[string]interface{}{"0": "a", "2": "c", "3": "d"}, Assign(list, []string{"3"}, "d"))

	assert.Equal(t, "scalar", Erase("scalar", []string{"a"}))
	assert.Equal(t, map[string]interface{}{"a": "b"}, Assign("scalar", []string{"a"}, "b"))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	s := NewSnapshot("lorem", map[string]interface{}{
		"b":   map[string]interface{}{"name": "B"},
		"10":  map[string]interface{}{"name": "10"},
		"a":   map[string]interface{}{"name": "A"},
		"2":   map[string]interface{}{"name": "2"},
		"-1":  map[string]interface{}{"name": "-1"},
		"007": map[string]interface{}{"name": "007"},
	})
	assert.True(t, s.Exists())
	assert.Equal(t, "lorem", s.Key())

	var keys []string
	s.ForEach(func(child *Snapshot) bool {
		keys = append(keys, child.Key())
		return true
	})
	assert.Equal(t, []string{"-1", "2", "10", "007", "a", "b"}, keys)

	var first []string
	s.ForEach(func(child *Snapshot) bool {
		first = append(first, child.Key())
		return false
	})
	assert.Equal(t, []string{"-1"}, first)

	assert.Equal(t, "A", s.Child("a/name").Val())
	assert.Equal(t, "name", s.Child("a/name").Key())
	assert.False(t, s.Child("missing").Exists())

	var decoded struct {
		Name string `json:"name"`
	}
	require.NoError(t, s.Child("b").Unmarshal(&decoded))
	assert.Equal(t, "B", decoded.Name)

	list := NewSnapshot("list", []interface{}{"x", nil, "z"})
	children := list.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "2", children[1].Key())

	assert.Empty(t, NewSnapshot("x", nil).Children())
	assert.False(t, NewSnapshot("x", nil).Exists())
}

func TestCompareKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, CompareKeys("2", "10"))
	assert.Equal(t, 1, CompareKeys("a", "10"))
	assert.Equal(t, -1, CompareKeys("2147483647", "2147483648"), "out of int32 range is a string")
	assert.Equal(t, 0, CompareKeys("5", "5"))
	assert.Equal(t, -1, CompareKeys("-", "a"))
}

func TestPushID(t *testing.T) {
	t.Parallel()

	ids := make([]string, 0, 1000)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewPushID()
		require.Len(t, id, 20)
		require.NoError(t, ValidateKey(id))
		_, dup := seen[id]
		require.False(t, dup, "duplicate push id %s", id)
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	assert.True(t, sort.StringsAreSorted(ids), "push ids must be chronological")
}

func TestStoreApp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	app := NewStoreApp(&mapStore{})
	db := app.Ref("/lorem")
	assert.Equal(t, "lorem", db.Key())
	assert.Equal(t, "/lorem", db.Path())
	assert.Equal(t, "", app.Ref("/").Key())

	child := db.Child("customers/0")
	assert.Equal(t, "/lorem/customers/0", child.Path())
	require.NoError(t, child.Set(ctx, map[string]interface{}{"name": "Charlie"}))

	snap, err := db.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Charlie", snap.Child("customers/0/name").Val())

	pushed, err := db.Child("customers").Push(ctx, map[string]interface{}{"name": "Mary"})
	require.NoError(t, err)
	assert.Len(t, pushed.Key(), 20)
	snap, err = pushed.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mary", snap.Child("name").Val())

	require.NoError(t, child.Remove(ctx))
	snap, err = child.Get(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Exists())

	assert.ErrorIs(t, db.Child("a.b").Set(ctx, 1), ErrInvalidPath)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = db.Get(canceled)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, app.Close(ctx))
	require.NoError(t, app.Close(ctx))
	_, err = db.Get(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
