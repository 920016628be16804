// Package tree provides access to hierarchical document trees, as offered by
// the Firebase Realtime Database, and the local trees used in its place.
//
// All values stored in a tree are in JSON form: objects are
// map[string]interface{}, numbers are float64. Empty objects and nil values
// do not exist in a tree; writing them removes the entry.
package tree

import (
	"context"
	"errors"
)

// Errors.
var (
	ErrInvalidPath = errors.New("invalid path")
	ErrInvalidKey  = errors.New("invalid key")
	ErrClosed      = errors.New("tree is closed")
)

// App is an open session to a tree.
type App interface {
	// Ref returns a reference to the given path.
	Ref(path string) Ref
	// Close takes the session offline and releases it.
	Close(ctx context.Context) error
}

// Ref is a reference to a location in a tree.
type Ref interface {
	// Key returns the last segment of the path. It is empty for the root.
	Key() string
	// Path returns the absolute path of the reference.
	Path() string
	// Child returns a reference to a location below this one.
	Child(path string) Ref

	// Get reads the value at the location.
	Get(ctx context.Context) (*Snapshot, error)
	// Set replaces the value at the location. A nil value removes it.
	Set(ctx context.Context, value interface{}) error
	// Push stores the value under a new chronologically sortable key.
	Push(ctx context.Context, value interface{}) (Ref, error)
	// Remove removes the value at the location.
	Remove(ctx context.Context) error
}
