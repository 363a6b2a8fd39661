package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordbookCRUD(t *testing.T) {
	t.Parallel()
	books := newFakeWordbookStore()
	svc := NewWordbookService(books, slog.Default())
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateWordbook(ctx, userID, "JLPT N2")
	require.NoError(t, err)
	assert.Equal(t, userID, created.UserID)

	got, err := svc.GetWordbook(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "JLPT N2", got.Name)

	renamed, err := svc.RenameWordbook(ctx, userID, created.ID, "JLPT N1")
	require.NoError(t, err)
	assert.Equal(t, "JLPT N1", renamed.Name)

	listed, err := svc.ListWordbooks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "JLPT N1", listed[0].Name)

	require.NoError(t, svc.DeleteWordbook(ctx, userID, created.ID))

	_, err = svc.GetWordbook(ctx, userID, created.ID)
	assert.ErrorIs(t, err, ErrWordbookNotFound)
}

func TestWordbookOwnership(t *testing.T) {
	t.Parallel()
	books := newFakeWordbookStore()
	svc := NewWordbookService(books, slog.Default())
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateWordbook(ctx, owner, "Private")
	require.NoError(t, err)

	_, err = svc.GetWordbook(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = svc.RenameWordbook(ctx, stranger, created.ID, "Stolen")
	assert.ErrorIs(t, err, ErrNotOwned)

	assert.ErrorIs(t, svc.DeleteWordbook(ctx, stranger, created.ID), ErrNotOwned)

	// The stranger's listing stays empty.
	listed, err := svc.ListWordbooks(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestWordbookValidation(t *testing.T) {
	t.Parallel()
	books := newFakeWordbookStore()
	svc := NewWordbookService(books, slog.Default())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateWordbook(ctx, userID, "")
	require.Error(t, err)

	created, err := svc.CreateWordbook(ctx, userID, "Valid")
	require.NoError(t, err)

	_, err = svc.RenameWordbook(ctx, userID, created.ID, "")
	require.Error(t, err)

	// A failed rename leaves the stored name alone.
	got, err := svc.GetWordbook(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Valid", got.Name)
}
