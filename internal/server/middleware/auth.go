package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authd/internal/server/handlers"
	"github.com/iudanet/authd/internal/server/token"
)

// SessionAuth creates middleware that verifies the session token cookie.
// On success the account ID lands in the request context; otherwise the
// request is rejected with the standard failure envelope.
func SessionAuth(logger *slog.Logger, tokenCfg token.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handlers.SessionCookieName)
			if err != nil {
				logger.Warn("missing session cookie", "path", r.URL.Path)
				unauthorized(w, "no session token provided")
				return
			}

			accountID, err := token.Verify(tokenCfg, cookie.Value)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					logger.Warn("expired session token")
					unauthorized(w, "session expired")
					return
				}
				logger.Warn("invalid session token", "error", err)
				unauthorized(w, "invalid session token")
				return
			}

			ctx := context.WithValue(r.Context(), handlers.AccountIDKey, accountID)

			logger.Debug("session verified", "account_id", accountID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes a 401 failure envelope.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
