package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// stubDriver backs a *sql.DB whose transactions trivially succeed, so the
// service's transaction plumbing runs without a real database. The fake
// store ignores the transaction handle.
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return &stubConn{}, nil }

type stubConn struct{}

func (*stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not supported")
}
func (*stubConn) Close() error              { return nil }
func (*stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerOnce sync.Once

func stubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerOnce.Do(func() { sql.Register("servicestub", stubDriver{}) })
	db, err := sql.Open("servicestub", "")
	require.NoError(t, err)
	return db
}

type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

func newUserService(t *testing.T) (UserService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	return NewUserService(users, stubDB(t), slog.Default()), users
}

func TestCreateUser(t *testing.T) {
	t.Parallel()
	svc, users := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "learner@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", created.Email)
	assert.Contains(t, users.users, created.ID)

	// Duplicate email surfaces the store sentinel through the wrap.
	_, err = svc.CreateUser(ctx, "learner@example.com", "another-password-here")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "get@example.com", "a-long-enough-password")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	byEmail, err := svc.GetUserByEmail(ctx, "get@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUpdateUserEmail(t *testing.T) {
	t.Parallel()
	svc, users := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "old@example.com", "a-long-enough-password")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateUserEmail(ctx, created.ID, "new@example.com"))
	assert.Equal(t, "new@example.com", users.users[created.ID].Email)

	other, err := svc.CreateUser(ctx, "taken@example.com", "a-long-enough-password")
	require.NoError(t, err)

	err = svc.UpdateUserEmail(ctx, other.ID, "new@example.com")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "bye@example.com", "a-long-enough-password")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), store.ErrUserNotFound)
}
