package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

type fakeUserService struct {
	users     map[uuid.UUID]*domain.User
	updateErr error

	lastEmail    string
	lastPassword string
	deleted      []uuid.UUID
}

func (f *fakeUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserService) CreateUser(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserService) UpdateUserEmail(
	ctx context.Context,
	userID uuid.UUID,
	newEmail string,
) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	user, ok := f.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Email = newEmail
	f.lastEmail = newEmail
	return nil
}

func (f *fakeUserService) UpdateUserPassword(
	ctx context.Context,
	userID uuid.UUID,
	newPassword string,
) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[userID]; !ok {
		return store.ErrUserNotFound
	}
	f.lastPassword = newPassword
	return nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, ok := f.users[userID]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func newUserRouter(svc *fakeUserService, userID uuid.UUID) http.Handler {
	h := NewUserHandler(svc, slog.Default())
	r := chi.NewRouter()
	r.Use(withUser(userID))
	r.Get("/users/me", h.Me)
	r.Put("/users/me/email", h.UpdateEmail)
	r.Put("/users/me/password", h.UpdatePassword)
	r.Delete("/users/me", h.DeleteAccount)
	return r
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("reader@example.com", "correct-horse-battery")
	require.NoError(t, err)
	user.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return user
}

func TestUserHandlerMe(t *testing.T) {
	user := testUser(t)
	svc := &fakeUserService{users: map[uuid.UUID]*domain.User{user.ID: user}}
	router := newUserRouter(svc, user.ID)

	w := doJSON(t, router, http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "reader@example.com", resp.Email)
	assert.True(t, resp.CreatedAt.Equal(user.CreatedAt))
}

func TestUserHandlerMeUnknownUser(t *testing.T) {
	svc := &fakeUserService{users: map[uuid.UUID]*domain.User{}}
	router := newUserRouter(svc, uuid.New())

	w := doJSON(t, router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlerUpdateEmail(t *testing.T) {
	user := testUser(t)
	svc := &fakeUserService{users: map[uuid.UUID]*domain.User{user.ID: user}}
	router := newUserRouter(svc, user.ID)

	w := doJSON(t, router, http.MethodPut, "/users/me/email",
		UpdateEmailRequest{Email: "new@example.com"})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "new@example.com", svc.lastEmail)

	w = doJSON(t, router, http.MethodPut, "/users/me/email",
		UpdateEmailRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandlerUpdateEmailConflict(t *testing.T) {
	user := testUser(t)
	svc := &fakeUserService{
		users:     map[uuid.UUID]*domain.User{user.ID: user},
		updateErr: store.ErrEmailExists,
	}
	router := newUserRouter(svc, user.ID)

	w := doJSON(t, router, http.MethodPut, "/users/me/email",
		UpdateEmailRequest{Email: "taken@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandlerUpdatePassword(t *testing.T) {
	user := testUser(t)
	svc := &fakeUserService{users: map[uuid.UUID]*domain.User{user.ID: user}}
	router := newUserRouter(svc, user.ID)

	w := doJSON(t, router, http.MethodPut, "/users/me/password",
		UpdatePasswordRequest{Password: "a-much-longer-secret"})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "a-much-longer-secret", svc.lastPassword)

	w = doJSON(t, router, http.MethodPut, "/users/me/password",
		UpdatePasswordRequest{Password: "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandlerDeleteAccount(t *testing.T) {
	user := testUser(t)
	svc := &fakeUserService{users: map[uuid.UUID]*domain.User{user.ID: user}}
	router := newUserRouter(svc, user.ID)

	w := doJSON(t, router, http.MethodDelete, "/users/me", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, svc.deleted, 1)
	assert.Equal(t, user.ID, svc.deleted[0])
}
