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

// ResetCodeService handles reset-code verification: it re-authenticates
// a guardian from the one-time code delivered by the forget-password
// flow and hands back a recovery token.
type ResetCodeService struct {
	guardians ResetConfirmStore
	hasher    SecretHasher
	tokens    TokenIssuer
	logger    *slog.Logger
}

// NewResetCodeService creates a new ResetCodeService.
func NewResetCodeService(guardians ResetConfirmStore, hasher SecretHasher, tokens TokenIssuer) (*ResetCodeService, error) {
	return NewResetCodeServiceWithLogger(guardians, hasher, tokens, slog.Default())
}

// NewResetCodeServiceWithLogger creates a new ResetCodeService with an
// explicit logger.
func NewResetCodeServiceWithLogger(guardians ResetConfirmStore, hasher SecretHasher, tokens TokenIssuer, logger *slog.Logger) (*ResetCodeService, error) {
	if guardians == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("guardians store is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("secret hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("logger is required")
	}
	return &ResetCodeService{guardians: guardians, hasher: hasher, tokens: tokens, logger: logger}, nil
}

// Authenticate verifies a reset code against the guardian's stored
// verification-token hash and, on match, issues a recovery token bound
// to the guardian's id, persists it as the access token, and clears the
// verification hash so the code is single-use.
//
// Outcomes: ErrNotFound (unknown email), ErrInvalidResetCode (no code
// pending or mismatch), or the recovery token. A guardian with no
// pending code always fails verification.
func (s *ResetCodeService) Authenticate(ctx context.Context, email, code string) (string, error) {
	guardian, err := s.guardians.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("GUARDIAN_NOT_FOUND").With("field", "email").Wrap(ErrNotFound)
		}
		err = oops.Code("RESET_CONFIRM_FAILED").With("operation", "get guardian by email").Wrap(err)
		errutil.LogError(s.logger, "reset confirmation lookup failed", err)
		return "", err
	}

	if guardian.VerificationTokenHash == "" {
		return "", oops.Code("RESET_CODE_INVALID").Wrap(ErrInvalidResetCode)
	}

	valid, err := s.hasher.Verify(code, guardian.VerificationTokenHash)
	if err != nil {
		err = oops.Code("RESET_CONFIRM_FAILED").With("operation", "verify reset code").Wrap(err)
		errutil.LogError(s.logger, "reset code verification failed", err)
		return "", err
	}
	if !valid {
		return "", oops.Code("RESET_CODE_INVALID").Wrap(ErrInvalidResetCode)
	}

	token, err := s.tokens.Issue(guardian.ID.String())
	if err != nil {
		err = oops.Code("RESET_CONFIRM_FAILED").With("operation", "issue recovery token").Wrap(err)
		errutil.LogError(s.logger, "recovery token issuance failed", err)
		return "", err
	}

	updated, err := s.guardians.UpdateAccessToken(ctx, guardian.ID, token)
	if err != nil {
		err = oops.Code("RESET_CONFIRM_FAILED").With("operation", "persist recovery token").Wrap(err)
		errutil.LogError(s.logger, "recovery token persistence failed", err)
		return "", err
	}
	if !updated {
		err = oops.Code("RESET_CONFIRM_FAILED").
			With("guardian_id", guardian.ID.String()).
			Errorf("guardian disappeared during reset confirmation")
		errutil.LogError(s.logger, "recovery token persistence failed", err)
		return "", err
	}

	// Rotate out the verification token so the code cannot be replayed.
	cleared, err := s.guardians.UpdateVerificationToken(ctx, guardian.ID, "")
	if err != nil {
		err = oops.Code("RESET_CONFIRM_FAILED").With("operation", "clear verification token").Wrap(err)
		errutil.LogError(s.logger, "verification token rotation failed", err)
		return "", err
	}
	if !cleared {
		err = oops.Code("RESET_CONFIRM_FAILED").
			With("guardian_id", guardian.ID.String()).
			Errorf("guardian disappeared during reset confirmation")
		errutil.LogError(s.logger, "verification token rotation failed", err)
		return "", err
	}

	return token, nil
}
