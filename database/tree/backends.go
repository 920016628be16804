package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/safing/treebase/config"
)

// An Opener opens a session to a tree of its type.
type Opener func(ctx context.Context, settings *config.Settings) (App, error)

var (
	backends     = make(map[string]Opener)
	backendsLock sync.Mutex
)

// Register registers a new tree backend.
func Register(name string, opener Opener) error {
	backendsLock.Lock()
	defer backendsLock.Unlock()

	_, ok := backends[name]
	if ok {
		return errors.New("opener for this backend already exists")
	}

	backends[name] = opener
	return nil
}

// Open opens a session to a tree of the given backend.
func Open(ctx context.Context, name string, settings *config.Settings) (App, error) {
	backendsLock.Lock()
	opener, ok := backends[name]
	backendsLock.Unlock()

	if !ok {
		return nil, fmt.Errorf("tree backend %q is not registered", name)
	}

	return opener(ctx, settings)
}
