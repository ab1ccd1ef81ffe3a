// Package api defines the wire types of the authentication HTTP API.
package api

import "github.com/iudanet/authd/internal/models"

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`    // unique account email
	Password string `json:"password"` // plaintext, hashed server-side
	Name     string `json:"name"`     // display name
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest is the body of POST /api/auth/verify-email.
type VerifyEmailRequest struct {
	Code string `json:"code"` // 6-digit code from the verification mail
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password/{token}.
type ResetPasswordRequest struct {
	Password string `json:"password"` // new plaintext password
}

// AuthResponse is the uniform envelope returned by every auth endpoint.
// User is present on operations that return an account view.
type AuthResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	User    *models.SanitizedAccount `json:"user,omitempty"`
}
