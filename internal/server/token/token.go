// Package token implements the stateless session token codec.
//
// Tokens are HS256 JWTs carrying the account ID as subject. Issue and
// Verify are pure value functions; attaching the token to a transport
// (cookie) is the HTTP boundary's job.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec errors
var (
	// ErrExpired indicates the token signature was valid but the token
	// is past its expiry.
	ErrExpired = errors.New("session token expired")

	// ErrInvalid indicates a malformed token or a bad signature.
	ErrInvalid = errors.New("invalid session token")
)

const issuer = "authd"

// Config holds the signing configuration for session tokens.
type Config struct {
	Secret []byte        // HMAC signing secret
	TTL    time.Duration // validity window, 7 days by default
}

// SessionClaims are the JWT claims embedded in a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// Issue produces a signed session token asserting accountID until now+TTL.
// It returns the token and its absolute expiry so the caller can set a
// matching cookie max-age.
func Issue(cfg Config, accountID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.TTL)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of a session token and returns the
// embedded account ID. Returns ErrExpired or ErrInvalid.
func Verify(cfg Config, tokenString string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
