// Package storage defines the persistence interfaces of the auth server.
package storage

import (
	"context"
	"time"

	"github.com/iudanet/authd/internal/models"
)

// AccountStorage defines the interface for account persistence.
//
// Lookups by verification code and reset token are store-wide: the one-time
// credential is the whole key, clients do not submit an account identifier
// alongside it.
type AccountStorage interface {
	// CreateAccount creates a new account.
	// Returns ErrEmailTaken if the email is already registered.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail retrieves an account by email (exact match).
	// Returns ErrAccountNotFound if no such account exists.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID retrieves an account by ID.
	// Returns ErrAccountNotFound if no such account exists.
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)

	// GetAccountByVerificationCode retrieves the account holding an
	// unexpired verification code (expiry strictly after now).
	// Returns ErrAccountNotFound otherwise.
	GetAccountByVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error)

	// GetAccountByResetToken retrieves the account holding an unexpired
	// reset token (expiry strictly after now).
	// Returns ErrAccountNotFound otherwise.
	GetAccountByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error)

	// UpdateAccount replaces the stored account record (last write wins).
	// Returns ErrAccountNotFound if no such account exists.
	UpdateAccount(ctx context.Context, account *models.Account) error

	// UpdateLastLogin updates only the last login timestamp.
	UpdateLastLogin(ctx context.Context, id string, lastLogin time.Time) error
}
