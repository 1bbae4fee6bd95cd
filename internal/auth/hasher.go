// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds. DefaultHashCost follows the current OWASP
// recommendation for interactive logins.
const (
	DefaultHashCost = 12
	MinHashCost     = bcrypt.MinCost
	MaxHashCost     = bcrypt.MaxCost
)

// SecretHasher provides one-way hashing and verification for secrets
// (passwords and reset codes).
type SecretHasher interface {
	// Hash produces a salted one-way digest of the secret.
	Hash(secret string) (string, error)

	// Verify checks if the secret matches the digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an
	// error on malformed hash input.
	Verify(secret, hash string) (bool, error)
}

// BcryptHasher implements SecretHasher using bcrypt with a fixed work
// factor. The comparison is constant-time within bcrypt itself.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
// A cost of 0 selects DefaultHashCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultHashCost
	}
	if cost < MinHashCost || cost > MaxHashCost {
		return nil, oops.Code("AUTH_INVALID_COST").
			With("cost", cost).
			Errorf("bcrypt cost must be between %d and %d", MinHashCost, MaxHashCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash produces a salted bcrypt digest of the secret. Empty secrets are
// accepted; secrets over 72 bytes are rejected by bcrypt.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}
	return string(digest), nil
}

// Verify checks if the secret matches the bcrypt digest.
func (h *BcryptHasher) Verify(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
}
