package query

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/safing/treebase/database/accessor"
)

type stringSliceCondition struct {
	key      string
	operator uint8
	value    []string
}

func newStringSliceCondition(key string, operator uint8, value interface{}) *stringSliceCondition {
	switch v := value.(type) {
	case string:
		parsedValue := strings.Split(v, ",")
		return &stringSliceCondition{
			key:      key,
			operator: operator,
			value:    parsedValue,
		}
	case []string:
		return &stringSliceCondition{
			key:      key,
			operator: operator,
			value:    slices.Clone(v),
		}
	case []interface{}:
		parsedValue := make([]string, 0, len(v))
		for _, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return &stringSliceCondition{
					key:      fmt.Sprintf("incompatible value %v for []string", value),
					operator: errorPresent,
				}
			}
			parsedValue = append(parsedValue, s)
		}
		return &stringSliceCondition{
			key:      key,
			operator: operator,
			value:    parsedValue,
		}
	default:
		return &stringSliceCondition{
			key:      fmt.Sprintf("incompatible value %v for []string", value),
			operator: errorPresent,
		}
	}
}

func (c *stringSliceCondition) complies(acc accessor.Accessor) bool {
	comp, ok := acc.GetString(c.key)
	if !ok {
		return false
	}

	switch c.operator {
	case In:
		return slices.Contains(c.value, comp)
	default:
		return false
	}
}

func (c *stringSliceCondition) check() error {
	if c.operator == errorPresent {
		return errors.New(c.key)
	}
	return nil
}

func (c *stringSliceCondition) string() string {
	return fmt.Sprintf("%s %s %s", escapeString(c.key), getOpName(c.operator), escapeString(strings.Join(c.value, ",")))
}
