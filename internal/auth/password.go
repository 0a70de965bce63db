package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashing signals a failure of the hashing primitive itself. Callers must
// not treat it as a wrong password.
var ErrHashing = errors.New("password hashing failed")

const minBcryptCost = 10

// PasswordHasher wraps bcrypt with a fixed work factor.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher, raising the cost to the enforced
// minimum when configured lower.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted one-way hash of the plaintext. A fresh salt is drawn
// per call, so hashing the same plaintext twice yields different outputs.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hashed), nil
}

// Verify recomputes the hash using the salt embedded in hashed and compares
// in constant time. Malformed hashed input yields false, never an error.
func (h *PasswordHasher) Verify(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
