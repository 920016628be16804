package storage

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors for accessors.
var (
	ErrConflict = &StatusError{Code: http.StatusConflict, Message: "Conflict: duplicate id"}
	ErrNotFound = &StatusError{Code: http.StatusNotFound, Message: "Not Found"}
)

// StatusError is an error carrying an HTTP-like status code.
type StatusError struct {
	Code    int
	Message string
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("%d %s", se.Code, se.Message)
}

// Is matches status errors by code.
func (se *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError) //nolint:errorlint
	return ok && t.Code == se.Code
}

// StatusCode returns the status code carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// ConfigError is returned when the settings do not allow connecting. It is
// returned before any remote call is made.
type ConfigError struct {
	Setting string
	Msg     string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", ce.Setting, ce.Msg)
}

// ConnectionError is returned when opening the handle failed.
type ConnectionError struct {
	Err error
}

func (ce *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect: %s", ce.Err)
}

func (ce *ConnectionError) Unwrap() error {
	return ce.Err
}

// DisconnectionError is returned when releasing the handle failed.
type DisconnectionError struct {
	Err error
}

func (de *DisconnectionError) Error() string {
	return fmt.Sprintf("failed to disconnect: %s", de.Err)
}

func (de *DisconnectionError) Unwrap() error {
	return de.Err
}
