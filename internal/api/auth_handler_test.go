package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/service/auth"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// fakeUserStore mimics the real store's hashing contract: Create moves the
// plaintext into a recoverable fake hash so the login path can verify it.
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
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
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

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore                   { return f }

// fakeVerifier matches the fake hash format used by fakeUserStore.
type fakeVerifier struct{}

func (fakeVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type recordingJWTService struct {
	refreshClaims *auth.Claims
	refreshErr    error
}

func (s *recordingJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-" + userID.String(), nil
}

func (s *recordingJWTService) ValidateToken(
	ctx context.Context,
	token string,
) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (s *recordingJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	return "refresh-" + userID.String(), nil
}

func (s *recordingJWTService) ValidateRefreshToken(
	ctx context.Context,
	token string,
) (*auth.Claims, error) {
	return s.refreshClaims, s.refreshErr
}

func newAuthHandler(jwt auth.JWTService) (*AuthHandler, *fakeUserStore) {
	users := newFakeUserStore()
	return NewAuthHandler(users, jwt, fakeVerifier{}, time.Hour), users
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	handler(w, r)
	return w
}

func TestRegister(t *testing.T) {
	t.Parallel()
	h, users := newAuthHandler(&recordingJWTService{})

	w := postJSON(t, h.Register, "/auth/register", RegisterRequest{
		Email:    "new@example.com",
		Password: "a-long-enough-password",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.Equal(t, "access-"+resp.UserID.String(), resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEmpty(t, resp.ExpiresAt)

	// The stored user carries only the fake hash.
	stored := users.users[resp.UserID]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
}

func TestRegisterRejections(t *testing.T) {
	t.Parallel()
	h, _ := newAuthHandler(&recordingJWTService{})

	// Short password fails validation.
	w := postJSON(t, h.Register, "/auth/register", RegisterRequest{
		Email:    "short@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate email conflicts.
	payload := RegisterRequest{Email: "dup@example.com", Password: "a-long-enough-password"}
	w = postJSON(t, h.Register, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(t, h.Register, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	h, _ := newAuthHandler(&recordingJWTService{})

	w := postJSON(t, h.Register, "/auth/register", RegisterRequest{
		Email:    "login@example.com",
		Password: "a-long-enough-password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "login@example.com",
		Password: "a-long-enough-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)

	// Wrong password and unknown user are indistinguishable.
	w = postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password-entirely",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "a-long-enough-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	h, _ := newAuthHandler(&recordingJWTService{
		refreshClaims: &auth.Claims{UserID: userID, TokenType: "refresh"},
	})

	w := postJSON(t, h.RefreshToken, "/auth/refresh", RefreshTokenRequest{
		RefreshToken: "some-refresh-token",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-"+userID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+userID.String(), resp.RefreshToken)
}

func TestRefreshTokenRejections(t *testing.T) {
	t.Parallel()
	h, _ := newAuthHandler(&recordingJWTService{refreshErr: auth.ErrExpiredToken})

	w := postJSON(t, h.RefreshToken, "/auth/refresh", RefreshTokenRequest{
		RefreshToken: "expired",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing token fails validation before hitting the JWT service.
	w = postJSON(t, h.RefreshToken, "/auth/refresh", RefreshTokenRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
