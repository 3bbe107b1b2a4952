// Package auth guards the serving layer. The ledger itself is
// single-user: one access password unlocks it, verified against a
// bcrypt hash, and sessions are carried as signed JWTs.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid access password")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
)

// PasswordGate verifies the ledger access password using bcrypt.
type PasswordGate struct {
	hash []byte
}

// NewPasswordGate hashes the configured access password. The
// plaintext is not retained.
func NewPasswordGate(password string) (*PasswordGate, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &PasswordGate{hash: hash}, nil
}

// NewPasswordGateFromHash uses a pre-computed bcrypt hash, so the
// plaintext never has to appear in configuration.
func NewPasswordGateFromHash(hash string) *PasswordGate {
	return &PasswordGate{hash: []byte(hash)}
}

// Verify checks a login attempt against the stored hash.
func (g *PasswordGate) Verify(password string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
