package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safing/treebase/config"
)

func TestStatusErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("customer 0: %w", ErrConflict)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, 409, StatusCode(wrapped))
	assert.ErrorIs(t, &StatusError{Code: 404, Message: "gone"}, ErrNotFound)
	assert.Equal(t, 0, StatusCode(errors.New("transport")))

	cause := errors.New("dial tcp: refused")
	assert.ErrorIs(t, &ConnectionError{Err: cause}, cause)
	assert.ErrorIs(t, &DisconnectionError{Err: cause}, cause)
	assert.Contains(t, (&ConfigError{Setting: "database", Msg: "required"}).Error(), "database")
}

type nopConnector struct {
	Connector
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	factory := func(*config.Settings) (Connector, error) {
		return &nopConnector{}, nil
	}
	assert.NoError(t, Register("nop-test", factory))
	assert.Error(t, Register("nop-test", factory))

	c, err := New("nop-test", &config.Settings{})
	assert.NoError(t, err)
	assert.IsType(t, &nopConnector{}, c)

	_, err = New("unknown-test", &config.Settings{})
	assert.Error(t, err)
}
