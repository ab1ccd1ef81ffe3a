package handlers

import "context"

// contextKey is the type for request context keys set by middleware.
type contextKey string

const (
	// AccountIDKey holds the authenticated account ID in the request context.
	AccountIDKey contextKey = "account_id"
)

// AccountIDFromContext extracts the authenticated account ID set by the
// session middleware.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDKey).(string)
	return id, ok
}
