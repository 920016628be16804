package bbolttree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/treetest"
)

func TestBBolt(t *testing.T) {
	t.Parallel()

	app, err := tree.Open(context.Background(), config.BackendBBolt, &config.Settings{
		Location: t.TempDir(),
		Format:   "cbor",
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, app.Close(context.Background()))
	}()

	treetest.Run(t, app)
}

func TestPersistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	settings := &config.Settings{Location: t.TempDir()}

	app, err := Open(ctx, settings)
	require.NoError(t, err)
	require.NoError(t, app.Ref("lorem/0").Set(ctx, map[string]interface{}{"name": "Charlie"}))
	require.NoError(t, app.Close(ctx))

	app, err = Open(ctx, settings)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, app.Close(ctx))
	}()
	snap, err := app.Ref("lorem/0/name").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Charlie", snap.Val())
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), &config.Settings{})
	assert.Error(t, err)

	_, err = Open(context.Background(), &config.Settings{Location: t.TempDir(), Format: "raw"})
	assert.Error(t, err)
}
