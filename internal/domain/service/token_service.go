package service

import (
	"time"

	"taskhub/internal/errors"
)

// Verification failures are distinguished internally for diagnostics only.
// The HTTP boundary collapses all three into a single unauthorized outcome so
// callers learn nothing about why a token was rejected.
var (
	// ErrTokenMalformed indicates the token structure could not be decoded.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired indicates the token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenSignatureInvalid indicates the signature does not match the
	// shared secret.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// TokenService mints and verifies the signed, expiring bearer tokens that
// carry a principal between the issuing and the verifying service. Both
// services hold the same shared secret; no other state is exchanged.
type TokenService interface {
	// Mint encodes {sub: subject, exp: now + ttl}, signs it and returns the
	// encoded token.
	Mint(subject string, ttl time.Duration) (string, error)

	// Verify checks signature integrity and expiry and returns the subject.
	// Failures are one of ErrTokenMalformed, ErrTokenExpired or
	// ErrTokenSignatureInvalid.
	Verify(token string) (string, error)

	// AccessTokenTTL returns the configured lifetime for minted tokens.
	AccessTokenTTL() time.Duration
}
