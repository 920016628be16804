package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/safing/treebase/config"
)

// A Factory creates a new connector of its type.
type Factory func(settings *config.Settings) (Connector, error)

var (
	connectors     = make(map[string]Factory)
	connectorsLock sync.Mutex
)

// Register registers a new connector type.
func Register(name string, factory Factory) error {
	connectorsLock.Lock()
	defer connectorsLock.Unlock()

	_, ok := connectors[name]
	if ok {
		return errors.New("factory for this type already exists")
	}

	connectors[name] = factory
	return nil
}

// New creates a connector of the given type.
func New(name string, settings *config.Settings) (Connector, error) {
	connectorsLock.Lock()
	factory, ok := connectors[name]
	connectorsLock.Unlock()

	if !ok {
		return nil, fmt.Errorf("connector of this type (%s) does not exist", name)
	}

	return factory(settings)
}
