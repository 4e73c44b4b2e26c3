package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymform/backend/internal/auth"
)

type stubLoginChecker struct {
	tokens map[string]int
	err    error
}

func (c *stubLoginChecker) TokenUserID(_ context.Context, token string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	userID, ok := c.tokens[token]
	if !ok {
		return 0, auth.ErrNotLoggedIn
	}
	return userID, nil
}

func TestAuthCheck(t *testing.T) {
	checker := &stubLoginChecker{
		tokens: map[string]int{"valid_token": 7},
	}
	authMiddleware := NewAuthMiddlewareHandler(checker)

	var gotUserID int
	var gotUserOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotUserOK = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	wrapped := authMiddleware.AuthCheck()(next)

	// open path, no token needed
	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotUserOK)

	// protected path without token
	req = httptest.NewRequest("GET", "/api/workouts/sessions", nil)
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// protected path with an unknown token
	req = httptest.NewRequest("GET", "/api/workouts/sessions", nil)
	req.Header.Set(auth.TokenHeader, "bogus_token")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// protected path with a valid token
	req = httptest.NewRequest("GET", "/api/workouts/sessions", nil)
	req.Header.Set(auth.TokenHeader, "valid_token")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotUserOK)
	assert.Equal(t, 7, gotUserID)

	// OPTIONS goes straight through
	req = httptest.NewRequest("OPTIONS", "/api/workouts/sessions", nil)
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthCheck_CheckerError(t *testing.T) {
	checker := &stubLoginChecker{err: errors.New("redis down")}
	authMiddleware := NewAuthMiddlewareHandler(checker)

	wrapped := authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/workouts/sessions", nil)
	req.Header.Set(auth.TokenHeader, "some_token")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
