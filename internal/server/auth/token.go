// Package auth holds the credential primitives of the service: bcrypt
// password hashing and HS256 session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "usersvc"

// TokenCodec issues and verifies self-expiring bearer tokens signed with a
// single process-wide secret. Rotating the secret invalidates every token
// issued before the rotation.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// TokenOption customises a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces time.Now, mostly for tests that need to cross the
// validity window.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec for the given secret and validity window.
func NewTokenCodec(secret []byte, validity time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %s", validity)
	}

	c := &TokenCodec{
		secret:   append([]byte(nil), secret...),
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)

	return c, nil
}

// Validity returns the lifetime of issued tokens.
func (c *TokenCodec) Validity() time.Duration {
	return c.validity
}

// Issue signs a token for subjectID valid from now until now+validity.
func (c *TokenCodec) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("token subject must not be empty")
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its subject.
// The error is one of common.ErrTokenMalformed, common.ErrTokenSignatureInvalid
// or common.ErrTokenExpired.
func (c *TokenCodec) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", classifyTokenError(err)
	}
	if claims.Subject == "" {
		return "", common.ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenSignatureInvalid
	default:
		return common.ErrTokenMalformed
	}
}
