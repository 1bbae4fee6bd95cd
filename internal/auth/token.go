// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL bounds token replay in time when no explicit validity
// is configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenIssuer creates signed, time-bound identity tokens from a subject
// claim. Issued tokens are opaque to the flows; verification happens at
// a different layer.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// JWTIssuer implements TokenIssuer with HS256-signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer creates a JWTIssuer. The secret must be non-empty; a ttl
// of 0 selects DefaultTokenTTL.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_MISSING_SIGNING_KEY").Errorf("signing secret cannot be empty")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue returns a signed token embedding the subject and an expiration.
func (i *JWTIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_SIGNING_FAILED").With("subject", subject).Wrap(err)
	}
	return signed, nil
}
