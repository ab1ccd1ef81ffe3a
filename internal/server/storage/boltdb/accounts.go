package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/storage"
)

// CreateAccount creates a new account. The email index check and the write
// happen inside one Update transaction, so concurrent signups for the same
// email cannot both succeed.
func (s *Storage) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(bucketEmailIndex)
		if index.Get([]byte(account.Email)) != nil {
			return storage.ErrEmailTaken
		}

		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}

		if err := tx.Bucket(bucketAccounts).Put([]byte(account.ID), data); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}

		if err := index.Put([]byte(account.Email), []byte(account.ID)); err != nil {
			return fmt.Errorf("failed to index email: %w", err)
		}

		return nil
	})
}

// GetAccountByEmail retrieves an account by email via the email index.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account *models.Account

	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketEmailIndex).Get([]byte(email))
		if id == nil {
			return storage.ErrAccountNotFound
		}

		var err error
		account, err = getByID(tx, string(id))
		return err
	})

	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *Storage) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account *models.Account

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		account, err = getByID(tx, id)
		return err
	})

	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccountByVerificationCode scans for the account holding an unexpired
// verification code. The store is small enough that a full scan beats
// maintaining another index.
func (s *Storage) GetAccountByVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error) {
	return s.findAccount(func(a *models.Account) bool {
		return a.VerificationCode != "" &&
			a.VerificationCode == code &&
			a.VerificationExpiresAt != nil &&
			a.VerificationExpiresAt.After(now)
	})
}

// GetAccountByResetToken scans for the account holding an unexpired reset token.
func (s *Storage) GetAccountByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	return s.findAccount(func(a *models.Account) bool {
		return a.ResetToken != "" &&
			a.ResetToken == token &&
			a.ResetExpiresAt != nil &&
			a.ResetExpiresAt.After(now)
	})
}

// UpdateAccount replaces the stored account record.
func (s *Storage) UpdateAccount(ctx context.Context, account *models.Account) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getByID(tx, account.ID)
		if err != nil {
			return err
		}

		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}

		if err := tx.Bucket(bucketAccounts).Put([]byte(account.ID), data); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}

		// Keep the email index in sync if the address changed.
		if existing.Email != account.Email {
			index := tx.Bucket(bucketEmailIndex)
			if err := index.Delete([]byte(existing.Email)); err != nil {
				return fmt.Errorf("failed to drop old email index: %w", err)
			}
			if err := index.Put([]byte(account.Email), []byte(account.ID)); err != nil {
				return fmt.Errorf("failed to index email: %w", err)
			}
		}

		return nil
	})
}

// UpdateLastLogin updates only the last login timestamp.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string, lastLogin time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		account, err := getByID(tx, id)
		if err != nil {
			return err
		}

		account.LastLoginAt = &lastLogin
		account.UpdatedAt = lastLogin

		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}

		return tx.Bucket(bucketAccounts).Put([]byte(account.ID), data)
	})
}

// findAccount scans all accounts for the first one matching the predicate.
func (s *Storage) findAccount(match func(*models.Account) bool) (*models.Account, error) {
	var found *models.Account

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			if found != nil {
				return nil
			}

			account := &models.Account{}
			if err := json.Unmarshal(v, account); err != nil {
				return fmt.Errorf("failed to unmarshal account %s: %w", k, err)
			}

			if match(account) {
				found = account
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrAccountNotFound
	}

	return found, nil
}

// getByID loads and unmarshals one account inside an open transaction.
func getByID(tx *bbolt.Tx, id string) (*models.Account, error) {
	data := tx.Bucket(bucketAccounts).Get([]byte(id))
	if data == nil {
		return nil, storage.ErrAccountNotFound
	}

	account := &models.Account{}
	if err := json.Unmarshal(data, account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return account, nil
}
