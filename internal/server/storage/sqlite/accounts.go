package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/storage"
)

const accountColumns = `id, email, name, password_hash, is_verified,
	verification_code, verification_expires_at,
	reset_token, reset_expires_at,
	last_login_at, created_at, updated_at`

// CreateAccount creates a new account.
func (s *Storage) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.IsVerified,
		nullString(account.VerificationCode),
		nullTime(account.VerificationExpiresAt),
		nullString(account.ResetToken),
		nullTime(account.ResetExpiresAt),
		nullTime(account.LastLoginAt),
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		// The UNIQUE constraint on email resolves concurrent signup races.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// GetAccountByEmail retrieves an account by email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	return s.getAccount(ctx, query, email)
}

// GetAccountByID retrieves an account by ID.
func (s *Storage) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return s.getAccount(ctx, query, id)
}

// GetAccountByVerificationCode retrieves the account holding an unexpired
// verification code. The lookup is store-wide: the code is the whole key.
func (s *Storage) GetAccountByVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE verification_code = ? AND verification_expires_at > ?`
	return s.getAccount(ctx, query, code, now)
}

// GetAccountByResetToken retrieves the account holding an unexpired reset token.
func (s *Storage) GetAccountByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE reset_token = ? AND reset_expires_at > ?`
	return s.getAccount(ctx, query, token, now)
}

// UpdateAccount replaces the stored account record.
func (s *Storage) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET email = ?, name = ?, password_hash = ?, is_verified = ?,
			verification_code = ?, verification_expires_at = ?,
			reset_token = ?, reset_expires_at = ?,
			last_login_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.IsVerified,
		nullString(account.VerificationCode),
		nullTime(account.VerificationExpiresAt),
		nullString(account.ResetToken),
		nullTime(account.ResetExpiresAt),
		nullTime(account.LastLoginAt),
		account.UpdatedAt,
		account.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}

// UpdateLastLogin updates only the last login timestamp.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string, lastLogin time.Time) error {
	query := `UPDATE accounts SET last_login_at = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, lastLogin, lastLogin, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}

// getAccount runs a single-row account query and scans the result.
func (s *Storage) getAccount(ctx context.Context, query string, args ...any) (*models.Account, error) {
	account := &models.Account{}
	var (
		verificationCode      sql.NullString
		verificationExpiresAt sql.NullTime
		resetToken            sql.NullString
		resetExpiresAt        sql.NullTime
		lastLoginAt           sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.IsVerified,
		&verificationCode,
		&verificationExpiresAt,
		&resetToken,
		&resetExpiresAt,
		&lastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.VerificationCode = verificationCode.String
	if verificationExpiresAt.Valid {
		account.VerificationExpiresAt = &verificationExpiresAt.Time
	}
	account.ResetToken = resetToken.String
	if resetExpiresAt.Valid {
		account.ResetExpiresAt = &resetExpiresAt.Time
	}
	if lastLoginAt.Valid {
		account.LastLoginAt = &lastLoginAt.Time
	}

	return account, nil
}

// nullString maps "" to SQL NULL so the one-time credential columns stay
// NULL when cleared.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps a nil pointer to SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
