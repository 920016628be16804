package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safing/treebase/database/record"
	"github.com/safing/treebase/database/storage"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/log"
	"github.com/safing/treebase/metrics"
)

// Accessor maps the records of one model onto the database tree.
//
// Identified writes and deletes first probe whether the record exists and
// then act. The two steps are separate remote calls: concurrent writers may
// both pass the probe, in which case the last write wins.
//
// Models sharing a database are told apart by the _type field. A record of
// another model is reported as storage.ErrNotFound by FindByID, PutWithID and
// DestroyByID, and is left out of FindAll. PostWithID still fails with
// storage.ErrConflict for it, as the id is taken.
type Accessor struct {
	connector *Connector
	modelName string
}

// NewAccessor returns the accessor for the given model.
func NewAccessor(c *Connector, modelName string) *Accessor {
	return &Accessor{
		connector: c,
		modelName: modelName,
	}
}

// ModelName returns the name of the model.
func (a *Accessor) ModelName() string {
	return a.modelName
}

func (a *Accessor) forDB(fields map[string]interface{}) map[string]interface{} {
	return record.ForDB(a.modelName, fields).Wire()
}

func (a *Accessor) fromDB(id string, value interface{}) (*record.Record, error) {
	return record.FromDB(id, value)
}

func (a *Accessor) ref(ctx context.Context, id string) (tree.Ref, error) {
	if err := tree.ValidateKey(id); err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	db, err := a.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Child(id), nil
}

func (a *Accessor) probe(ctx context.Context, ref tree.Ref) (*tree.Snapshot, error) {
	log.Tracer(ctx).Tracef("firebase: probing %s", ref.Path())
	return ref.Get(ctx)
}

// owns reports whether the snapshot holds a record of this model. Values
// without a type are claimed by every model.
func (a *Accessor) owns(snap *tree.Snapshot) bool {
	if !snap.Exists() {
		return false
	}
	e, err := record.ParseEnvelope(snap.Val())
	if err != nil {
		return true
	}
	return e.Type == "" || e.Type == a.modelName
}

// track starts tracing and measuring an operation. The returned function
// must be called with the result of the operation.
func track(ctx context.Context, op string) (context.Context, func(err *error)) {
	started := time.Now()
	ctx, tracer := log.AddTracer(ctx)

	return ctx, func(errPtr *error) {
		err := *errPtr

		result := metrics.ResultOK
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrConflict):
			result = metrics.ResultConflict
		case errors.Is(err, storage.ErrNotFound):
			result = metrics.ResultNotFound
		default:
			result = metrics.ResultError
			tracer.Warningf("firebase: %s failed: %s", op, err)
		}
		metrics.ObserveOperation(op, result, started)

		tracer.Submit()
	}
}

// PostWithoutID stores a record under a new id generated by the tree.
func (a *Accessor) PostWithoutID(ctx context.Context, fields map[string]interface{}) (result storage.Result, err error) {
	ctx, done := track(ctx, "postWithoutId")
	defer done(&err)

	db, err := a.connector.Connect(ctx)
	if err != nil {
		return storage.Result{}, err
	}

	ref, err := db.Push(ctx, a.forDB(fields))
	if err != nil {
		return storage.Result{}, err
	}
	log.Tracer(ctx).Tracef("firebase: created %s %s", a.modelName, ref.Key())
	return storage.Result{ID: ref.Key()}, nil
}

// PostWithID stores a record with the given id. It fails with
// storage.ErrConflict if a record with the id exists.
func (a *Accessor) PostWithID(ctx context.Context, id string, fields map[string]interface{}) (result storage.Result, err error) {
	ctx, done := track(ctx, "postWithId")
	defer done(&err)

	ref, err := a.ref(ctx, id)
	if err != nil {
		return storage.Result{}, err
	}

	snap, err := a.probe(ctx, ref)
	switch {
	case err != nil:
		return storage.Result{}, err
	case snap.Exists():
		return storage.Result{}, fmt.Errorf("%s %s: %w", a.modelName, id, storage.ErrConflict)
	}

	if err := ref.Set(ctx, a.forDB(fields)); err != nil {
		return storage.Result{}, err
	}
	log.Tracer(ctx).Tracef("firebase: created %s %s", a.modelName, id)
	return storage.Result{ID: id}, nil
}

// PutWithID replaces the record with the given id. It fails with
// storage.ErrNotFound if no record with the id exists.
func (a *Accessor) PutWithID(ctx context.Context, id string, fields map[string]interface{}) (result storage.Result, err error) {
	ctx, done := track(ctx, "putWithId")
	defer done(&err)

	ref, err := a.ref(ctx, id)
	if err != nil {
		return storage.Result{}, err
	}

	snap, err := a.probe(ctx, ref)
	switch {
	case err != nil:
		return storage.Result{}, err
	case !a.owns(snap):
		return storage.Result{}, fmt.Errorf("%s %s: %w", a.modelName, id, storage.ErrNotFound)
	}

	if err := ref.Set(ctx, a.forDB(fields)); err != nil {
		return storage.Result{}, err
	}
	log.Tracer(ctx).Tracef("firebase: replaced %s %s", a.modelName, id)
	return storage.Result{ID: id}, nil
}

// DestroyByID removes the record with the given id and reports whether it
// existed.
func (a *Accessor) DestroyByID(ctx context.Context, id string) (bool, error) {
	err := a.destroyByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (a *Accessor) destroyByID(ctx context.Context, id string) (err error) {
	ctx, done := track(ctx, "destroyById")
	defer done(&err)

	ref, err := a.ref(ctx, id)
	if err != nil {
		return err
	}

	snap, err := a.probe(ctx, ref)
	switch {
	case err != nil:
		return err
	case !a.owns(snap):
		return fmt.Errorf("%s %s: %w", a.modelName, id, storage.ErrNotFound)
	}

	if err := ref.Remove(ctx); err != nil {
		return err
	}
	log.Tracer(ctx).Tracef("firebase: removed %s %s", a.modelName, id)
	return nil
}

// FindByID returns the record with the given id. It fails with
// storage.ErrNotFound if no record with the id exists.
func (a *Accessor) FindByID(ctx context.Context, id string) (r *record.Record, err error) {
	ctx, done := track(ctx, "findById")
	defer done(&err)

	ref, err := a.ref(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !a.owns(snap) {
		return nil, fmt.Errorf("%s %s: %w", a.modelName, id, storage.ErrNotFound)
	}
	return a.fromDB(id, snap.Val())
}

// FindAll returns all records of the model in key order. Entries without a
// value and entries of other models are skipped. Entries that are not
// objects are skipped with a warning, as they cannot hold a record.
func (a *Accessor) FindAll(ctx context.Context) (records []*record.Record, err error) {
	ctx, done := track(ctx, "findAll")
	defer done(&err)

	db, err := a.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := db.Get(ctx)
	if err != nil {
		return nil, err
	}

	records = make([]*record.Record, 0)
	snap.ForEach(func(child *tree.Snapshot) bool {
		e, parseErr := record.ParseEnvelope(child.Val())
		if parseErr != nil {
			log.Tracer(ctx).Warningf("firebase: skipping %s %s: %s", a.modelName, child.Key(), parseErr)
			return true
		}
		if e.Type != "" && e.Type != a.modelName {
			return true
		}
		records = append(records, e.Record(child.Key()))
		return true
	})
	return records, nil
}
