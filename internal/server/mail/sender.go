// Package mail delivers the transactional notifications of the auth
// service through an HTTP email API.
package mail

import "context"

// Sender delivers account lifecycle notifications.
//
// Implementations must not retry; a failed send is reported to the caller,
// which decides whether it is fatal for the request.
type Sender interface {
	// SendVerification mails the 6-digit verification code after signup.
	SendVerification(ctx context.Context, toEmail, code string) error

	// SendWelcome mails the welcome message after a successful verification.
	SendWelcome(ctx context.Context, toEmail, name string) error

	// SendResetRequest mails the password reset link.
	SendResetRequest(ctx context.Context, toEmail, resetURL string) error

	// SendResetSuccess confirms a completed password reset.
	SendResetSuccess(ctx context.Context, toEmail string) error
}
