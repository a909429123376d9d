package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

type stubUserStore struct {
	users map[uuid.UUID]models.User
	err   error
}

func (s *stubUserStore) CreateUser(context.Context, string, string) (models.User, error) {
	panic("not used")
}

func (s *stubUserStore) FindByEmail(context.Context, string) (models.User, error) {
	panic("not used")
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) UpdatePassword(context.Context, string, string) (models.User, error) {
	panic("not used")
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			http.Error(w, "no principal", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(principal.UserID.String()))
	})
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(tokens)(echoPrincipal())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization token is required")
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(tokens)(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(tokens)(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager("secret", "test", -time.Minute)
	token, err := expired.Generate(uuid.New(), "u@x.com")
	require.NoError(t, err)

	verifier := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(verifier)(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestRequireAuthAttachesPrincipal(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	userID := uuid.New()
	token, err := tokens.Generate(userID, "u@x.com")
	require.NoError(t, err)

	handler := RequireAuth(tokens)(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()
	store := &stubUserStore{users: map[uuid.UUID]models.User{
		adminID: {ID: adminID, Email: "admin@x.com", IsAdmin: true},
		userID:  {ID: userID, Email: "user@x.com"},
	}}

	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(tokens)(RequireAdmin(store)(echoPrincipal()))

	run := func(id uuid.UUID, email string) *httptest.ResponseRecorder {
		token, err := tokens.Generate(id, email)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := run(adminID, "admin@x.com")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = run(userID, "user@x.com")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized as an admin")

	// Account deleted after the token was issued.
	rec = run(uuid.New(), "ghost@x.com")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminStoreFault(t *testing.T) {
	store := &stubUserStore{err: assert.AnError}
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	handler := RequireAuth(tokens)(RequireAdmin(store)(echoPrincipal()))

	token, err := tokens.Generate(uuid.New(), "u@x.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
