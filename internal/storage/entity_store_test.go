package storage

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	missing := &pq.Error{Code: pgUndefinedTable, Message: `relation "catalog_entities" does not exist`}

	err := describe(missing)
	assert.Contains(t, err.Error(), "run database migrations")

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))

	other := errors.New("connection reset")
	assert.Same(t, other, describe(other))
}

func TestNewConnection_RequiresURL(t *testing.T) {
	_, err := NewConnection(&Config{})
	assert.ErrorIs(t, err, ErrDatabaseURLEmpty)
}

func TestEntityStore_CloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&EntityStore{}).Close())
}
