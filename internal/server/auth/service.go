// Package auth implements the account authentication orchestrator: the
// state machine behind signup, email verification, login, password reset,
// and session checking.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/hasher"
	"github.com/iudanet/authd/internal/server/mail"
	"github.com/iudanet/authd/internal/server/otp"
	"github.com/iudanet/authd/internal/server/storage"
	"github.com/iudanet/authd/internal/validation"
)

// Config holds the orchestrator's policy knobs.
type Config struct {
	VerificationTTL time.Duration // verification code validity, 24h
	ResetTTL        time.Duration // reset token validity, 30m
	AppURL          string        // base URL for reset links, no trailing slash
}

// Service coordinates the account store, password hasher, and notification
// sender. Each operation is atomic with respect to the account it touches;
// store writes are last-write-wins.
type Service struct {
	logger *slog.Logger
	store  storage.AccountStorage
	hasher hasher.PasswordHasher
	mailer mail.Sender
	cfg    Config
	now    func() time.Time
}

// NewService creates the auth orchestrator.
func NewService(logger *slog.Logger, store storage.AccountStorage, h hasher.PasswordHasher, mailer mail.Sender, cfg Config) *Service {
	return &Service{
		logger: logger,
		store:  store,
		hasher: h,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Result is the outcome of an operation that persists state and then sends
// a notification. MailErr is non-nil when the account write succeeded but
// the notification could not be delivered; the operation itself succeeded
// and the caller reports the delivery failure as a soft warning.
type Result struct {
	Account *models.Account
	MailErr error
}

// Signup registers a new account: unverified, with a fresh 6-digit
// verification code valid for VerificationTTL, and dispatches the
// verification mail.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*Result, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Friendly duplicate check first; the store's uniqueness guarantee
	// still backs concurrent signups racing past it.
	if _, err := s.store.GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := otp.NumericCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	codeExpiry := now.Add(s.cfg.VerificationTTL)

	account := &models.Account{
		ID:                    uuid.New().String(),
		Email:                 email,
		Name:                  name,
		PasswordHash:          passwordHash,
		IsVerified:            false,
		VerificationCode:      code,
		VerificationExpiresAt: &codeExpiry,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account created",
		slog.String("account_id", account.ID))

	mailErr := s.mailer.SendVerification(ctx, account.Email, code)
	if mailErr != nil {
		s.logger.WarnContext(ctx, "failed to send verification mail",
			slog.String("account_id", account.ID),
			slog.Any("error", mailErr))
	}

	return &Result{Account: account, MailErr: mailErr}, nil
}

// VerifyEmail looks up the account holding an unexpired code, marks it
// verified, clears the code, and sends the welcome mail.
//
// The lookup is store-wide, not scoped to one account: the code alone is
// the request body, so it acts as the whole secret. Kept intentionally to
// match the existing client contract.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: verification code is required", ErrValidation)
	}

	account, err := s.store.GetAccountByVerificationCode(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	account.IsVerified = true
	account.VerificationCode = ""
	account.VerificationExpiresAt = nil
	account.UpdatedAt = s.now()

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to mark account verified: %w", err)
	}

	s.logger.InfoContext(ctx, "email verified",
		slog.String("account_id", account.ID))

	mailErr := s.mailer.SendWelcome(ctx, account.Email, account.Name)
	if mailErr != nil {
		s.logger.WarnContext(ctx, "failed to send welcome mail",
			slog.String("account_id", account.ID),
			slog.Any("error", mailErr))
	}

	return &Result{Account: account, MailErr: mailErr}, nil
}

// Login checks the credentials and updates the last-login timestamp.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.store.UpdateLastLogin(ctx, account.ID, now); err != nil {
		// Not fatal for the login itself.
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
	} else {
		account.LastLoginAt = &now
		account.UpdatedAt = now
	}

	s.logger.InfoContext(ctx, "login successful",
		slog.String("account_id", account.ID))

	return account, nil
}

// ForgotPassword issues a reset token valid for ResetTTL and mails the
// reset link. An unknown email is acknowledged without any store write or
// mail send, so the response never reveals whether the account exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*Result, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return &Result{}, nil
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	resetToken, err := otp.OpaqueToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	tokenExpiry := now.Add(s.cfg.ResetTTL)

	account.ResetToken = resetToken
	account.ResetExpiresAt = &tokenExpiry
	account.UpdatedAt = now

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.AppURL, resetToken)

	mailErr := s.mailer.SendResetRequest(ctx, account.Email, resetURL)
	if mailErr != nil {
		s.logger.WarnContext(ctx, "failed to send reset mail",
			slog.String("account_id", account.ID),
			slog.Any("error", mailErr))
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("account_id", account.ID))

	return &Result{Account: account, MailErr: mailErr}, nil
}

// ResetPassword consumes a reset token: the password hash is replaced and
// the token cleared in the same write, so a second call with the same
// token fails.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) (*Result, error) {
	if resetToken == "" {
		return nil, fmt.Errorf("%w: reset token is required", ErrValidation)
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	account, err := s.store.GetAccountByResetToken(ctx, resetToken, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = passwordHash
	account.ResetToken = ""
	account.ResetExpiresAt = nil
	account.UpdatedAt = s.now()

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("account_id", account.ID))

	mailErr := s.mailer.SendResetSuccess(ctx, account.Email)
	if mailErr != nil {
		s.logger.WarnContext(ctx, "failed to send reset confirmation mail",
			slog.String("account_id", account.ID),
			slog.Any("error", mailErr))
	}

	return &Result{Account: account, MailErr: mailErr}, nil
}

// CheckAuth resolves an already verified session to its account.
// Returns ErrNotFound if the account has vanished since the token was issued.
func (s *Service) CheckAuth(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return account, nil
}
