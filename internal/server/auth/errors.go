package auth

import "errors"

// Service error taxonomy. The HTTP boundary maps these to status codes and
// envelope messages; no other error crosses it raw.
var (
	// ErrValidation indicates missing or malformed input. Wrapped errors
	// carry the field-level detail.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken indicates a signup with an already registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. Unknown email and
	// wrong password return this same error so responses cannot be used
	// to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpired indicates a verification code or reset token
	// that matched nothing, including expired ones.
	ErrInvalidOrExpired = errors.New("code or token is invalid or expired")

	// ErrNotFound indicates the account referenced by a valid session no
	// longer exists.
	ErrNotFound = errors.New("account not found")

	// ErrUnauthenticated indicates a missing, invalid, or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")
)
