package models

import "time"

// Account represents a registered user account as persisted by the store.
//
// The struct serializes fully (the bbolt backend stores it as JSON); it must
// never be written to a client response directly. Sanitize returns the
// outward-facing view without the password hash or pending credentials.
type Account struct {
	ID                    string     `json:"id"`                                // UUID assigned at creation
	Email                 string     `json:"email"`                             // unique, stored case-sensitive
	Name                  string     `json:"name"`                              // display name
	PasswordHash          string     `json:"password_hash"`                     // bcrypt hash
	IsVerified            bool       `json:"is_verified"`                       // email ownership proven
	VerificationCode      string     `json:"verification_code,omitempty"`       // 6-digit one-time code
	VerificationExpiresAt *time.Time `json:"verification_expires_at,omitempty"` // set iff VerificationCode is set
	ResetToken            string     `json:"reset_token,omitempty"`             // opaque hex reset token
	ResetExpiresAt        *time.Time `json:"reset_expires_at,omitempty"`        // set iff ResetToken is set
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`           // updated on each login
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// SanitizedAccount is the account view returned to clients.
// It carries no password hash and no pending one-time credentials.
type SanitizedAccount struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Sanitize returns the client-safe view of the account.
func (a *Account) Sanitize() *SanitizedAccount {
	return &SanitizedAccount{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		IsVerified:  a.IsVerified,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
