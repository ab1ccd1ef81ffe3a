// Package otp generates one-time credentials: numeric email-verification
// codes and opaque password-reset tokens.
package otp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// codeMin and codeSpan define the verification code range
	// [100000, 999999]. Leading-zero codes are excluded so the code
	// always prints as six digits.
	codeMin  = 100000
	codeSpan = 900000

	// resetTokenBytes is the entropy of a reset token; hex-encoded it
	// yields a 40-character URL path segment.
	resetTokenBytes = 20
)

// NumericCode returns a 6-digit verification code, uniform over
// [100000, 999999]. Codes are scoped per account, so cross-account
// collisions are acceptable.
func NumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// OpaqueToken returns a high-entropy hex token suitable for use in a URL
// path segment.
func OpaqueToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
