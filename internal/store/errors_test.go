package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapGenericSentinels(t *testing.T) {
	t.Parallel()

	notFound := []error{ErrUserNotFound, ErrWordbookNotFound, ErrWordNotFound, ErrScheduleNotFound}
	for _, err := range notFound {
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsDuplicateError(err))
	}

	duplicates := []error{ErrEmailExists, ErrScheduleExists}
	for _, err := range duplicates {
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.True(t, IsDuplicateError(err))
		assert.False(t, IsNotFoundError(err))
	}
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading schedule: %w", ErrScheduleNotFound)
	assert.True(t, IsNotFoundError(wrapped))
	assert.ErrorIs(t, wrapped, ErrScheduleNotFound)
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("word", "update", "query failed", cause)

	assert.Equal(t, "update operation on word failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &storeErr)
	assert.Equal(t, "word", storeErr.Entity)

	bare := NewStoreError("user", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on user failed: no rows", bare.Error())
}
