// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// emailRegex is a deliberately loose shape check: one @, no spaces, a dot
// in the domain. Deliverability is the mailer's problem.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Guardian represents a registered account holder.
//
// AccessToken and VerificationTokenHash are empty when unset. The
// verification-token hash is a one-way bcrypt digest of the latest reset
// code; the plaintext code is never persisted.
type Guardian struct {
	ID                    ulid.ULID
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	PasswordHash          string
	AccessToken           string
	VerificationTokenHash string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewGuardian creates a validated Guardian with a fresh ULID.
// passwordHash must already be a one-way digest; this constructor never
// sees plaintext secrets.
func NewGuardian(firstName, lastName, email, phone, passwordHash string) (*Guardian, error) {
	if firstName == "" || lastName == "" {
		return nil, oops.Code("GUARDIAN_INVALID_NAME").Errorf("first and last name cannot be empty")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, oops.Code("GUARDIAN_INVALID_PHONE").Errorf("phone cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("GUARDIAN_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &Guardian{
		ID:           ulid.Make(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FullName returns the guardian's display name for notifications.
func (g *Guardian) FullName() string {
	return g.FirstName + " " + g.LastName
}

// ValidateEmail validates the shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("GUARDIAN_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("GUARDIAN_INVALID_EMAIL").With("email", email).Errorf("malformed email address")
	}
	return nil
}

// Draft carries the registration input before hashing.
type Draft struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// Store capabilities. Each flow depends only on the capabilities it
// uses; GuardianRepository composes the full surface for concrete
// implementations.

// GuardianByEmail looks up a guardian by email (case-insensitive).
// Returns ErrNotFound if no guardian has the given email.
type GuardianByEmail interface {
	GetByEmail(ctx context.Context, email string) (*Guardian, error)
}

// GuardianByID looks up a guardian by id.
type GuardianByID interface {
	GetByID(ctx context.Context, id ulid.ULID) (*Guardian, error)
}

// GuardianCreator stores a new guardian. Returns ErrConflict (wrapped)
// when the email or phone is already registered; uniqueness is enforced
// by the store, not the caller.
type GuardianCreator interface {
	Create(ctx context.Context, guardian *Guardian) error
}

// AccessTokenUpdater overwrites the guardian's access token.
// Returns false when no guardian with the given id exists.
type AccessTokenUpdater interface {
	UpdateAccessToken(ctx context.Context, id ulid.ULID, token string) (bool, error)
}

// VerificationTokenUpdater overwrites the guardian's verification-token
// hash. An empty hash clears it. Returns false when no guardian with
// the given id exists.
type VerificationTokenUpdater interface {
	UpdateVerificationToken(ctx context.Context, id ulid.ULID, tokenHash string) (bool, error)
}

// GuardianRepository composes every store capability.
type GuardianRepository interface {
	GuardianByEmail
	GuardianByID
	GuardianCreator
	AccessTokenUpdater
	VerificationTokenUpdater
}

// LoginStore is the capability set required by the login flow.
type LoginStore interface {
	GuardianByEmail
	AccessTokenUpdater
}

// ResetRequestStore is the capability set required by the
// forget-password flow.
type ResetRequestStore interface {
	GuardianByEmail
	VerificationTokenUpdater
}

// ResetConfirmStore is the capability set required by the reset-code
// verification flow.
type ResetConfirmStore interface {
	GuardianByEmail
	AccessTokenUpdater
	VerificationTokenUpdater
}
