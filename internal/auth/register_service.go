// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/petjournal/guardian/pkg/errutil"
)

// RegisterService handles guardian registration.
type RegisterService struct {
	guardians GuardianCreator
	hasher    SecretHasher
	logger    *slog.Logger
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(guardians GuardianCreator, hasher SecretHasher) (*RegisterService, error) {
	return NewRegisterServiceWithLogger(guardians, hasher, slog.Default())
}

// NewRegisterServiceWithLogger creates a new RegisterService with an
// explicit logger.
func NewRegisterServiceWithLogger(guardians GuardianCreator, hasher SecretHasher, logger *slog.Logger) (*RegisterService, error) {
	if guardians == nil {
		return nil, oops.Code("GUARDIAN_MISSING_DEPENDENCY").Errorf("guardians store is required")
	}
	if hasher == nil {
		return nil, oops.Code("GUARDIAN_MISSING_DEPENDENCY").Errorf("secret hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("GUARDIAN_MISSING_DEPENDENCY").Errorf("logger is required")
	}
	return &RegisterService{guardians: guardians, hasher: hasher, logger: logger}, nil
}

// Register hashes the draft password and stores a new guardian.
// A duplicate email or phone surfaces as ErrConflict (wrapped); the
// uniqueness check belongs to the store.
func (s *RegisterService) Register(ctx context.Context, draft Draft) (*Guardian, error) {
	if draft.Password == "" {
		return nil, oops.Code("GUARDIAN_INVALID_PASSWORD").Errorf("password cannot be empty")
	}

	passwordHash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		err = oops.Code("GUARDIAN_REGISTER_FAILED").With("operation", "hash password").Wrap(err)
		errutil.LogError(s.logger, "password hashing failed", err)
		return nil, err
	}

	guardian, err := NewGuardian(draft.FirstName, draft.LastName, draft.Email, draft.Phone, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.guardians.Create(ctx, guardian); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		err = oops.Code("GUARDIAN_REGISTER_FAILED").With("operation", "create guardian").Wrap(err)
		errutil.LogError(s.logger, "guardian creation failed", err)
		return nil, err
	}

	return guardian, nil
}
