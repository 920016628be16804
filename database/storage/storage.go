// Package storage defines the contract between a data source and the
// connector that maps records onto a database tree.
package storage

import (
	"context"

	"github.com/safing/treebase/database/record"
	"github.com/safing/treebase/database/tree"
)

// Connector opens and closes the handle to a database tree and hands out
// record accessors operating on it.
type Connector interface {
	// Connect opens the handle. If already connected, the existing handle is
	// returned.
	Connect(ctx context.Context) (tree.Ref, error)
	// Disconnect releases the handle. It is a no-op if not connected.
	Disconnect(ctx context.Context) error
	// Connected returns whether a handle is open.
	Connected() bool
	// Accessor returns the record accessor for the given model.
	Accessor(modelName string) Accessor
}

// Accessor maps the record operations of one model onto the tree.
//
// A record stored by another model under the same id is not found by
// FindByID, PutWithID and DestroyByID, but PostWithID reports ErrConflict
// for it.
type Accessor interface {
	// Retrieve
	FindByID(ctx context.Context, id string) (*record.Record, error)
	FindAll(ctx context.Context) ([]*record.Record, error)

	// Modify
	PostWithoutID(ctx context.Context, fields map[string]interface{}) (Result, error)
	PostWithID(ctx context.Context, id string, fields map[string]interface{}) (Result, error) // fails if exists
	PutWithID(ctx context.Context, id string, fields map[string]interface{}) (Result, error)  // fails if not exists
	DestroyByID(ctx context.Context, id string) (bool, error)
}

// Result identifies a written record.
type Result struct {
	ID string
	// Rev is the revision of the record. It is always empty, as the tree
	// does not version its entries.
	Rev string
}
