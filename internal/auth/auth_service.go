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

// Service provides the login flow.
type Service struct {
	guardians LoginStore
	hasher    SecretHasher
	tokens    TokenIssuer
	logger    *slog.Logger
}

// NewAuthService creates a new Service.
func NewAuthService(guardians LoginStore, hasher SecretHasher, tokens TokenIssuer) (*Service, error) {
	return NewAuthServiceWithLogger(guardians, hasher, tokens, slog.Default())
}

// NewAuthServiceWithLogger creates a new Service with an explicit logger.
func NewAuthServiceWithLogger(guardians LoginStore, hasher SecretHasher, tokens TokenIssuer, logger *slog.Logger) (*Service, error) {
	if guardians == nil {
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").Errorf("guardians store is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").Errorf("secret hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_MISSING_DEPENDENCY").Errorf("logger is required")
	}
	return &Service{guardians: guardians, hasher: hasher, tokens: tokens, logger: logger}, nil
}

// Authenticate verifies the guardian's password and, on success, issues
// an access token bound to the guardian's email, persists it, and
// returns it.
//
// An unknown email and a wrong password are indistinguishable to the
// caller: both return ErrInvalidCredentials (wrapped). Collaborator
// failures propagate with their own codes and are never retried here.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	guardian, err := s.guardians.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		err = oops.Code("AUTH_LOGIN_FAILED").With("operation", "get guardian by email").Wrap(err)
		errutil.LogError(s.logger, "login lookup failed", err)
		return "", err
	}

	valid, err := s.hasher.Verify(password, guardian.PasswordHash)
	if err != nil {
		err = oops.Code("AUTH_LOGIN_FAILED").With("operation", "verify password").Wrap(err)
		errutil.LogError(s.logger, "password verification failed", err)
		return "", err
	}
	if !valid {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(guardian.Email)
	if err != nil {
		err = oops.Code("AUTH_LOGIN_FAILED").With("operation", "issue access token").Wrap(err)
		errutil.LogError(s.logger, "token issuance failed", err)
		return "", err
	}

	updated, err := s.guardians.UpdateAccessToken(ctx, guardian.ID, token)
	if err != nil {
		err = oops.Code("AUTH_LOGIN_FAILED").With("operation", "persist access token").Wrap(err)
		errutil.LogError(s.logger, "access token persistence failed", err)
		return "", err
	}
	if !updated {
		// The guardian existed a moment ago; a concurrent delete won the
		// race. Surface it as an internal failure, not a credential error.
		err = oops.Code("AUTH_LOGIN_FAILED").
			With("guardian_id", guardian.ID.String()).
			Errorf("guardian disappeared during login")
		errutil.LogError(s.logger, "access token persistence failed", err)
		return "", err
	}

	return token, nil
}
