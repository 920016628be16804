package record

import "errors"

// ErrNotAnObject is returned when a stored value is not a key/value object
// and therefore cannot be a record.
var ErrNotAnObject = errors.New("value is not an object")
