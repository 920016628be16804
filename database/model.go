package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/safing/treebase/database/accessor"
	"github.com/safing/treebase/database/query"
	"github.com/safing/treebase/database/record"
	"github.com/safing/treebase/database/storage"
	"github.com/safing/treebase/log"
)

// maxConcurrentReads limits the parallel reads of FindByIDs.
const maxConcurrentReads = 8

// Model provides the record operations of one model.
type Model struct {
	name     string
	accessor storage.Accessor
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Create stores a new record. If the record has no id, a new one is
// generated. Fails with storage.ErrConflict if a record with the id exists.
func (m *Model) Create(ctx context.Context, r *record.Record) (*record.Record, error) {
	created := r.Clone()

	var (
		result storage.Result
		err    error
	)
	if created.ID == "" {
		result, err = m.accessor.PostWithoutID(ctx, created.Fields)
	} else {
		result, err = m.accessor.PostWithID(ctx, created.ID, created.Fields)
	}
	if err != nil {
		return nil, err
	}

	created.ID = result.ID
	return created, nil
}

// Save replaces the record, or creates it if it does not exist.
func (m *Model) Save(ctx context.Context, r *record.Record) (*record.Record, error) {
	if r.ID == "" {
		return m.Create(ctx, r)
	}

	saved := r.Clone()
	_, err := m.accessor.PutWithID(ctx, saved.ID, saved.Fields)
	if errors.Is(err, storage.ErrNotFound) {
		_, err = m.accessor.PostWithID(ctx, saved.ID, saved.Fields)
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ReplaceOrCreate replaces the record, or creates it if it does not exist.
func (m *Model) ReplaceOrCreate(ctx context.Context, r *record.Record) (*record.Record, error) {
	return m.Save(ctx, r)
}

// ReplaceByID replaces the fields of the record with the given id. Fails
// with storage.ErrNotFound if the record does not exist.
func (m *Model) ReplaceByID(ctx context.Context, id string, fields map[string]interface{}) (*record.Record, error) {
	replaced := record.New(id, fields)

	if _, err := m.accessor.PutWithID(ctx, id, replaced.Fields); err != nil {
		return nil, err
	}
	return replaced, nil
}

// FindByID returns the record with the given id, or nil if it does not exist.
func (m *Model) FindByID(ctx context.Context, id string) (*record.Record, error) {
	r, err := m.accessor.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

// Exists returns whether a record with the given id exists.
func (m *Model) Exists(ctx context.Context, id string) (bool, error) {
	r, err := m.FindByID(ctx, id)
	return r != nil, err
}

// FindByIDs returns the records with the given ids, in the order of the ids.
// Missing records are skipped.
func (m *Model) FindByIDs(ctx context.Context, ids []string) ([]*record.Record, error) {
	found := make([]*record.Record, len(ids))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentReads)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			r, err := m.FindByID(groupCtx, id)
			if err != nil {
				return fmt.Errorf("failed to get %s %s: %w", m.name, id, err)
			}
			found[i] = r
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	records := make([]*record.Record, 0, len(ids))
	for _, r := range found {
		if r != nil {
			records = append(records, r)
		}
	}
	return records, nil
}

// Find returns the records matching the query. A nil query returns all records.
func (m *Model) Find(ctx context.Context, q *query.Query) ([]*record.Record, error) {
	if q != nil {
		if _, err := q.Check(); err != nil {
			return nil, fmt.Errorf("invalid query: %w", err)
		}
		if q.Prefix() != m.name {
			return nil, fmt.Errorf("%w: %s is not %s", ErrModelMismatch, q.Prefix(), m.name)
		}
	}

	all, err := m.accessor.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return all, nil
	}

	type match struct {
		record *record.Record
		acc    accessor.Accessor
	}
	matches := make([]match, 0, len(all))
	for _, r := range all {
		acc := r.GetAccessor()
		if q.Matches(acc) {
			matches = append(matches, match{record: r, acc: acc})
		}
	}

	if key := q.SortKey(); key != "" {
		slices.SortStableFunc(matches, func(a, b match) int {
			return compareValues(a.acc, b.acc, key)
		})
	}

	limit, offset := q.Paging()
	if offset >= len(matches) {
		return []*record.Record{}, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	records := make([]*record.Record, 0, len(matches))
	for _, mt := range matches {
		records = append(records, mt.record)
	}
	log.Tracer(ctx).Tracef("database: query %s matched %d of %d records", q.Print(), len(records), len(all))
	return records, nil
}

// compareValues orders by number if both values are numbers, by string if
// both are strings, and puts missing values last.
func compareValues(a, b accessor.Accessor, key string) int {
	aFloat, aIsFloat := a.GetFloat(key)
	bFloat, bIsFloat := b.GetFloat(key)
	if aIsFloat && bIsFloat {
		switch {
		case aFloat < bFloat:
			return -1
		case aFloat > bFloat:
			return 1
		default:
			return 0
		}
	}

	aString, aIsString := a.GetString(key)
	bString, bIsString := b.GetString(key)
	switch {
	case aIsString && bIsString:
		return strings.Compare(aString, bString)
	case aIsFloat || aIsString:
		return -1
	case bIsFloat || bIsString:
		return 1
	default:
		return 0
	}
}

// Count returns the number of records matching the query.
func (m *Model) Count(ctx context.Context, q *query.Query) (int, error) {
	records, err := m.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// DestroyByID removes the record with the given id and returns the number of
// removed records.
func (m *Model) DestroyByID(ctx context.Context, id string) (int, error) {
	destroyed, err := m.accessor.DestroyByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if destroyed {
		return 1, nil
	}
	return 0, nil
}

// Destroy removes all records matching the query and returns the number of
// removed records. Failures do not stop the removal of other records.
func (m *Model) Destroy(ctx context.Context, q *query.Query) (int, error) {
	records, err := m.Find(ctx, q)
	if err != nil {
		return 0, err
	}

	var (
		count int
		errs  *multierror.Error
	)
	for _, r := range records {
		n, err := m.DestroyByID(ctx, r.ID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to destroy %s %s: %w", m.name, r.ID, err))
			continue
		}
		count += n
	}
	return count, errs.ErrorOrNil()
}

// DestroyAll removes all records of the model.
func (m *Model) DestroyAll(ctx context.Context) (int, error) {
	return m.Destroy(ctx, nil)
}
