package database

import "errors"

// ErrModelMismatch is returned when a query for one model is used with another.
var ErrModelMismatch = errors.New("query is for a different model")
