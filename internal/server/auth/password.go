package auth

import (
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes, so longer input is refused
// rather than silently truncated.
const maxPasswordBytes = 72

var (
	ErrEmptyPassword   = fmt.Errorf("%w: empty password", common.ErrInvalidPayload)
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", common.ErrInvalidPayload, maxPasswordBytes)
)

// PasswordHasher hashes and verifies passwords with bcrypt.
// It holds no mutable state and is safe for concurrent use.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	filler, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(filler), cost)
	if err != nil {
		return nil, err
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of plaintext. Every call uses a fresh salt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// mismatch, not an error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyMissing spends the same work as Verify against a throwaway hash and
// always reports false. Login calls it for unknown emails so response time
// does not reveal whether an account exists.
func (h *PasswordHasher) VerifyMissing(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
	return false
}
