package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Normalize converts a value into its JSON form and removes nil values and
// empty objects. Keys are validated.
func Normalize(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %T: %w", value, err)
	}
	var normalized interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}

	return prune(normalized)
}

func prune(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, child := range v {
			if err := ValidateKey(key); err != nil {
				return nil, err
			}
			pruned, err := prune(child)
			if err != nil {
				return nil, err
			}
			if pruned == nil {
				delete(v, key)
			} else {
				v[key] = pruned
			}
		}
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil

	case []interface{}:
		empty := true
		for i, child := range v {
			pruned, err := prune(child)
			if err != nil {
				return nil, err
			}
			v[i] = pruned
			if pruned != nil {
				empty = false
			}
		}
		if empty {
			return nil, nil
		}
		return v, nil

	default:
		return value, nil
	}
}

// Lookup returns the value at the given segments below root.
func Lookup(root interface{}, segments []string) interface{} {
	current := root
	for _, segment := range segments {
		switch v := current.(type) {
		case map[string]interface{}:
			current = v[segment]
		case []interface{}:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			current = v[i]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}

// Assign sets the value at the given segments below root and returns the new
// root. Maps on the way are modified in place. Objects that become empty are
// removed.
func Assign(root interface{}, segments []string, value interface{}) interface{} {
	if len(segments) == 0 {
		return value
	}

	var m map[string]interface{}
	switch v := root.(type) {
	case map[string]interface{}:
		m = v
	case []interface{}:
		m = make(map[string]interface{}, len(v))
		for i, child := range v {
			if child != nil {
				m[strconv.Itoa(i)] = child
			}
		}
	default:
		if value == nil {
			return root
		}
		m = make(map[string]interface{})
	}

	child := Assign(m[segments[0]], segments[1:], value)
	if child == nil {
		delete(m, segments[0])
	} else {
		m[segments[0]] = child
	}

	if len(m) == 0 {
		return nil
	}
	return m
}

// Erase removes the value at the given segments below root and returns the
// new root.
func Erase(root interface{}, segments []string) interface{} {
	return Assign(root, segments, nil)
}

// Copy returns a deep copy of a value in JSON form.
func Copy(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		c := make(map[string]interface{}, len(v))
		for key, child := range v {
			c[key] = Copy(child)
		}
		return c
	case []interface{}:
		c := make([]interface{}, len(v))
		for i, child := range v {
			c[i] = Copy(child)
		}
		return c
	default:
		return value
	}
}
