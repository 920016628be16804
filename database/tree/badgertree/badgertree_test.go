package badgertree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/database/tree/kvtree"
	"github.com/safing/treebase/database/tree/treetest"
)

func TestBadger(t *testing.T) {
	t.Parallel()

	app, err := tree.Open(context.Background(), config.BackendBadger, &config.Settings{
		Location: t.TempDir(),
		Format:   "msgpack",
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, app.Close(context.Background()))
	}()

	treetest.Run(t, app)
}

func TestMaintain(t *testing.T) {
	t.Parallel()

	b, err := NewBadger(t.TempDir())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, b.Close())
	}()

	require.NoError(t, b.Update(func(txn kvtree.Txn) error {
		return txn.Put("/lorem/0", []byte("J{}"))
	}))
	assert.NoError(t, b.Maintain())
}
