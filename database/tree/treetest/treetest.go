// Package treetest provides a conformance test for tree backends.
package treetest

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/database/tree"
)

// RandomDatabase returns a database name that is unique to the test run.
func RandomDatabase(t *testing.T) string {
	t.Helper()

	id, err := uuid.NewV4()
	require.NoError(t, err)
	return "test-" + id.String()
}

// Run runs the conformance test against the given app. It only touches data
// below a randomly named subtree, which it removes when done.
func Run(t *testing.T, app tree.App) {
	t.Helper()

	ctx := context.Background()
	db := app.Ref(RandomDatabase(t))
	defer func() {
		assert.NoError(t, db.Remove(ctx))
	}()

	// empty
	snap, err := db.Get(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Exists())
	assert.Empty(t, snap.Children())

	// set and get
	charlie := map[string]interface{}{
		"name": "Charlie",
		"age":  24,
		"address": map[string]interface{}{
			"city": "Vienna",
		},
	}
	require.NoError(t, db.Child("0").Set(ctx, charlie))
	snap, err = db.Child("0").Get(ctx)
	require.NoError(t, err)
	require.True(t, snap.Exists())
	assert.Equal(t, "0", snap.Key())
	assert.EqualValues(t, 24, snap.Child("age").Val())
	assert.Equal(t, "Vienna", snap.Child("address/city").Val())

	// read a nested value directly
	snap, err = db.Child("0/address/city").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vienna", snap.Val())

	// overwrite replaces the full value
	require.NoError(t, db.Child("0").Set(ctx, map[string]interface{}{"name": "Charles"}))
	snap, err = db.Child("0").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Charles"}, snap.Val())

	// write below an existing value
	require.NoError(t, db.Child("0/address/city").Set(ctx, "Graz"))
	snap, err = db.Child("0").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Charles", snap.Child("name").Val())
	assert.Equal(t, "Graz", snap.Child("address/city").Val())

	// write above existing values
	require.NoError(t, db.Child("1").Set(ctx, map[string]interface{}{"name": "Mary"}))
	require.NoError(t, db.Child("2").Set(ctx, map[string]interface{}{"name": "John"}))
	require.NoError(t, db.Child("10").Set(ctx, map[string]interface{}{"name": "Ten"}))

	snap, err = db.Get(ctx)
	require.NoError(t, err)
	var keys []string
	snap.ForEach(func(child *tree.Snapshot) bool {
		keys = append(keys, child.Key())
		return true
	})
	assert.Equal(t, []string{"0", "1", "2", "10"}, keys)

	// push
	first, err := db.Push(ctx, map[string]interface{}{"name": "First"})
	require.NoError(t, err)
	second, err := db.Push(ctx, map[string]interface{}{"name": "Second"})
	require.NoError(t, err)
	assert.Len(t, first.Key(), 20)
	assert.Less(t, first.Key(), second.Key())
	snap, err = second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second", snap.Child("name").Val())

	snap, err = db.Get(ctx)
	require.NoError(t, err)
	children := snap.Children()
	require.Len(t, children, 6)
	assert.Equal(t, first.Key(), children[4].Key())
	assert.Equal(t, second.Key(), children[5].Key())

	// remove
	require.NoError(t, db.Child("1").Remove(ctx))
	snap, err = db.Child("1").Get(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Exists())

	// removing the last nested value removes the parent
	require.NoError(t, db.Child("0/name").Remove(ctx))
	require.NoError(t, db.Child("0/address").Set(ctx, nil))
	snap, err = db.Child("0").Get(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Exists())

	// removing absent values is fine
	require.NoError(t, db.Child("missing/deeper").Remove(ctx))

	snap, err = db.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Children(), 4)
}
