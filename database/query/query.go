package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/safing/treebase/database/accessor"
)

// Example:
// q.New("person").Where(
//   q.And(
//     q.Where("age", q.GreaterThan, 18),
//     q.Or(
//       q.Where("name", q.StartsWith, "Ch"),
//       q.Where("name", q.Contains, "ar"),
//     ),
//   ),
// )

var prefixExpr = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Query contains a compiled query.
type Query struct {
	checked bool
	prefix  string
	where   Condition
	orderBy string
	limit   int
	offset  int
}

// New creates a new query for the records of the supplied model.
func New(prefix string) *Query {
	return &Query{
		prefix: prefix,
	}
}

// Where adds filtering.
func (q *Query) Where(condition Condition) *Query {
	q.where = condition
	return q
}

// Limit limits the number of returned results.
func (q *Query) Limit(limit int) *Query {
	q.limit = limit
	return q
}

// Offset sets the query offset.
func (q *Query) Offset(offset int) *Query {
	q.offset = offset
	return q
}

// OrderBy orders the results by the given key.
func (q *Query) OrderBy(key string) *Query {
	q.orderBy = key
	return q
}

// Check checks for errors in the query.
func (q *Query) Check() (*Query, error) {
	if q.checked {
		return q, nil
	}

	// check prefix
	if !prefixExpr.MatchString(q.prefix) {
		return nil, fmt.Errorf("invalid prefix: %q", q.prefix)
	}

	// check paging
	if q.limit < 0 || q.offset < 0 {
		return nil, fmt.Errorf("invalid paging: limit %d, offset %d", q.limit, q.offset)
	}

	// check condition
	if q.where != nil {
		err := q.where.check()
		if err != nil {
			return nil, err
		}
	} else {
		q.where = &noCond{}
	}

	q.checked = true
	return q, nil
}

// MustBeValid checks for errors in the query and panics if there is an error.
func (q *Query) MustBeValid() *Query {
	_, err := q.Check()
	if err != nil {
		panic(err)
	}
	return q
}

// IsChecked returns whether they query was checked.
func (q *Query) IsChecked() bool {
	return q.checked
}

// Prefix returns the model name the query applies to.
func (q *Query) Prefix() string {
	return q.prefix
}

// SortKey returns the key results are ordered by, if any.
func (q *Query) SortKey() string {
	return q.orderBy
}

// Paging returns the configured limit and offset. A limit of zero means no limit.
func (q *Query) Paging() (limit, offset int) {
	return q.limit, q.offset
}

// Matches checks whether the query matches the supplied accessor (value).
func (q *Query) Matches(acc accessor.Accessor) bool {
	if q.where == nil {
		return true
	}
	return q.where.complies(acc)
}

// Print returns the string representation of the query.
func (q *Query) Print() string {
	var where string
	if q.where != nil {
		where = q.where.string()
		if where != "" {
			if strings.HasPrefix(where, "(") {
				where = where[1 : len(where)-1]
			}
			where = fmt.Sprintf(" where %s", where)
		}
	}

	var orderBy string
	if q.orderBy != "" {
		orderBy = fmt.Sprintf(" orderby %s", q.orderBy)
	}

	var limit string
	if q.limit > 0 {
		limit = fmt.Sprintf(" limit %d", q.limit)
	}

	var offset string
	if q.offset > 0 {
		offset = fmt.Sprintf(" offset %d", q.offset)
	}

	return fmt.Sprintf("query %s%s%s%s%s", q.prefix, where, orderBy, limit, offset)
}
