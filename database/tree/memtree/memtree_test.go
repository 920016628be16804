package memtree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/treetest"
)

func TestMemTree(t *testing.T) {
	t.Parallel()

	treetest.Run(t, tree.NewStoreApp(New("test")))
}

func TestSharedTrees(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	settings := &config.Settings{Location: treetest.RandomDatabase(t)}

	app, err := tree.Open(ctx, config.BackendMemory, settings)
	require.NoError(t, err)
	require.NoError(t, app.Ref("lorem/0").Set(ctx, "kept"))
	require.NoError(t, app.Close(ctx))

	app, err = tree.Open(ctx, config.BackendMemory, settings)
	require.NoError(t, err)
	snap, err := app.Ref("lorem/0").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", snap.Val())

	other, err := tree.Open(ctx, config.BackendMemory, &config.Settings{Location: treetest.RandomDatabase(t)})
	require.NoError(t, err)
	snap, err = other.Ref("lorem/0").Get(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Exists())
}

func TestReadsAreCopies(t *testing.T) {
	t.Parallel()

	mt := New("test")
	require.NoError(t, mt.Write([]string{"a"}, map[string]interface{}{"b": "c"}))

	value, err := mt.Read([]string{"a"})
	require.NoError(t, err)
	value.(map[string]interface{})["b"] = "modified"

	value, err = mt.Read([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "c", value)
}
