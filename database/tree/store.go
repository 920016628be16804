package tree

import (
	"context"

	"github.com/tevino/abool"
)

// Store is a synchronous local tree. Values passed to and returned from a
// Store are in normalized JSON form and owned by the receiver.
type Store interface {
	// Read returns the value at the given segments, or nil.
	Read(segments []string) (interface{}, error)
	// Write replaces the value at the given segments. A nil value removes it.
	Write(segments []string, value interface{}) error
	// Close releases the store.
	Close() error
}

// StoreApp exposes a Store as an App.
type StoreApp struct {
	store  Store
	closed *abool.AtomicBool
}

// NewStoreApp returns an App that operates on the given store.
func NewStoreApp(store Store) *StoreApp {
	return &StoreApp{
		store:  store,
		closed: abool.New(),
	}
}

// Ref returns a reference to the given path.
func (a *StoreApp) Ref(path string) Ref {
	return &storeRef{
		app:      a,
		segments: SplitPath(path),
	}
}

// Close closes the underlying store. Further operations on refs of this app
// fail with ErrClosed.
func (a *StoreApp) Close(_ context.Context) error {
	if !a.closed.SetToIf(false, true) {
		return nil
	}
	return a.store.Close()
}

type storeRef struct {
	app      *StoreApp
	segments []string
}

func (r *storeRef) Key() string {
	if len(r.segments) == 0 {
		return ""
	}
	return r.segments[len(r.segments)-1]
}

func (r *storeRef) Path() string {
	return JoinPath(r.segments...)
}

func (r *storeRef) Child(path string) Ref {
	segments := make([]string, 0, len(r.segments)+1)
	segments = append(segments, r.segments...)
	segments = append(segments, SplitPath(path)...)
	return &storeRef{
		app:      r.app,
		segments: segments,
	}
}

func (r *storeRef) check(ctx context.Context) error {
	if r.app.closed.IsSet() {
		return ErrClosed
	}
	if err := ValidatePath(r.Path()); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *storeRef) Get(ctx context.Context) (*Snapshot, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	value, err := r.app.store.Read(r.segments)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(r.Key(), value), nil
}

func (r *storeRef) Set(ctx context.Context, value interface{}) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	normalized, err := Normalize(value)
	if err != nil {
		return err
	}
	return r.app.store.Write(r.segments, normalized)
}

func (r *storeRef) Push(ctx context.Context, value interface{}) (Ref, error) {
	child := r.Child(NewPushID())
	if value == nil {
		return child, nil
	}
	if err := child.Set(ctx, value); err != nil {
		return nil, err
	}
	return child, nil
}

func (r *storeRef) Remove(ctx context.Context) error {
	return r.Set(ctx, nil)
}
