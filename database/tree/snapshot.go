package tree

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Snapshot is the value of a location at the time it was read.
type Snapshot struct {
	key   string
	value interface{}
}

// NewSnapshot returns a snapshot of the given value in JSON form.
func NewSnapshot(key string, value interface{}) *Snapshot {
	return &Snapshot{
		key:   key,
		value: value,
	}
}

// Key returns the key of the location.
func (s *Snapshot) Key() string {
	return s.key
}

// Exists returns whether the location holds a value.
func (s *Snapshot) Exists() bool {
	return s.value != nil
}

// Val returns the value in JSON form.
func (s *Snapshot) Val() interface{} {
	return s.value
}

// Unmarshal decodes the value into v.
func (s *Snapshot) Unmarshal(v interface{}) error {
	data, err := json.Marshal(s.value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Child returns a snapshot of the value at the given path below this one.
func (s *Snapshot) Child(path string) *Snapshot {
	segments := SplitPath(path)
	key := s.key
	if len(segments) > 0 {
		key = segments[len(segments)-1]
	}
	return NewSnapshot(key, Lookup(s.value, segments))
}

// Children returns snapshots of all direct children in key order.
func (s *Snapshot) Children() []*Snapshot {
	var children []*Snapshot

	switch v := s.value.(type) {
	case map[string]interface{}:
		children = make([]*Snapshot, 0, len(v))
		for key, value := range v {
			if value != nil {
				children = append(children, NewSnapshot(key, value))
			}
		}
		slices.SortFunc(children, func(a, b *Snapshot) int {
			return CompareKeys(a.key, b.key)
		})
	case []interface{}:
		children = make([]*Snapshot, 0, len(v))
		for i, value := range v {
			if value != nil {
				children = append(children, NewSnapshot(strconv.Itoa(i), value))
			}
		}
	}

	return children
}

// ForEach calls fn for every child in key order, until fn returns false.
func (s *Snapshot) ForEach(fn func(child *Snapshot) bool) {
	for _, child := range s.Children() {
		if !fn(child) {
			return
		}
	}
}

// CompareKeys compares keys in tree order: keys that are 32 bit integers come
// first in numerical order, then all other keys in lexicographical order.
func CompareKeys(a, b string) int {
	aInt, aIsInt := intKey(a)
	bInt, bIsInt := intKey(b)

	switch {
	case aIsInt && bIsInt:
		switch {
		case aInt < bInt:
			return -1
		case aInt > bInt:
			return 1
		default:
			return 0
		}
	case aIsInt:
		return -1
	case bIsInt:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func intKey(key string) (int64, bool) {
	i, err := strconv.ParseInt(key, 10, 64)
	if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}
	// Keys with leading zeros or signs are not numbers.
	if strconv.FormatInt(i, 10) != key {
		return 0, false
	}
	return i, true
}
