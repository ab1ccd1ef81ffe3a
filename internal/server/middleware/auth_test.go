package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authd/internal/server/handlers"
	"github.com/iudanet/authd/internal/server/token"
)

func testTokenConfig() token.Config {
	return token.Config{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	cfg := testTokenConfig()

	tokenString, _, err := token.Issue(cfg, "account-123")
	require.NoError(t, err)

	var gotAccountID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID, _ = handlers.AccountIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: tokenString})

	w := httptest.NewRecorder()
	SessionAuth(testLogger(), cfg)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "account-123", gotAccountID)
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)

	w := httptest.NewRecorder()
	SessionAuth(testLogger(), testTokenConfig())(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	cfg := testTokenConfig()
	expiredCfg := cfg
	expiredCfg.TTL = -time.Minute

	tokenString, _, err := token.Issue(expiredCfg, "account-123")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: tokenString})

	w := httptest.NewRecorder()
	SessionAuth(testLogger(), cfg)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestSessionAuth_TamperedToken(t *testing.T) {
	cfg := testTokenConfig()

	tokenString, _, err := token.Issue(cfg, "account-123")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: tokenString + "x"})

	w := httptest.NewRecorder()
	SessionAuth(testLogger(), cfg)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
