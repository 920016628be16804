package memtree

import (
	"context"
	"sync"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
)

// MemTree is an in-memory tree.
type MemTree struct {
	name     string
	root     interface{}
	rootLock sync.RWMutex
}

var (
	trees     = make(map[string]*MemTree)
	treesLock sync.Mutex
)

func init() {
	_ = tree.Register(config.BackendMemory, Open)
}

// Open opens a session to the in-memory tree named by the location setting.
// Trees live as long as the process, so data survives reconnecting.
func Open(_ context.Context, settings *config.Settings) (tree.App, error) {
	treesLock.Lock()
	defer treesLock.Unlock()

	mt, ok := trees[settings.Location]
	if !ok {
		mt = New(settings.Location)
		trees[settings.Location] = mt
	}
	return tree.NewStoreApp(mt), nil
}

// New creates an in-memory tree that is not shared with other sessions.
func New(name string) *MemTree {
	return &MemTree{
		name: name,
	}
}

// Read returns a copy of the value at the given segments.
func (mt *MemTree) Read(segments []string) (interface{}, error) {
	mt.rootLock.RLock()
	defer mt.rootLock.RUnlock()

	return tree.Copy(tree.Lookup(mt.root, segments)), nil
}

// Write replaces the value at the given segments.
func (mt *MemTree) Write(segments []string, value interface{}) error {
	mt.rootLock.Lock()
	defer mt.rootLock.Unlock()

	mt.root = tree.Assign(mt.root, segments, value)
	return nil
}

// Close is a no-op, the tree stays available for new sessions.
func (mt *MemTree) Close() error {
	return nil
}
