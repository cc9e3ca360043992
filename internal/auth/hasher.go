// Package auth provides the credential-hashing and token-signing primitives
// used by the orchestrating service.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is a slow, salted one-way hash over plaintext credentials.
type PasswordHasher interface {
	// Hash produces a one-way digest of the password. A failure here is
	// fatal for the calling operation; plaintext is never stored.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the stored digest.
	Verify(password, digest string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with bcrypt.DefaultCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
