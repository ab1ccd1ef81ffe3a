package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern is a pragmatic address check: one "@", no spaces, a dot in
// the domain part. Full RFC 5322 validation is deliberately out of scope;
// ownership is proven by the verification mail, not by the regexp.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 6
	// MaxEmailLen bounds the stored email address.
	MaxEmailLen = 254
	// MaxNameLen bounds the stored display name.
	MaxNameLen = 128
)

// ValidateEmail checks that email looks like a deliverable address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateName checks the display name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}

	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}
