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

// ForgetPasswordService handles reset-code generation and delivery.
type ForgetPasswordService struct {
	guardians ResetRequestStore
	hasher    SecretHasher
	notifier  Notifier
	sender    string
	logger    *slog.Logger
}

// NewForgetPasswordService creates a new ForgetPasswordService.
// sender is the From address used on outgoing notifications.
func NewForgetPasswordService(guardians ResetRequestStore, hasher SecretHasher, notifier Notifier, sender string) (*ForgetPasswordService, error) {
	return NewForgetPasswordServiceWithLogger(guardians, hasher, notifier, sender, slog.Default())
}

// NewForgetPasswordServiceWithLogger creates a new ForgetPasswordService
// with an explicit logger.
func NewForgetPasswordServiceWithLogger(guardians ResetRequestStore, hasher SecretHasher, notifier Notifier, sender string, logger *slog.Logger) (*ForgetPasswordService, error) {
	if guardians == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("guardians store is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("secret hasher is required")
	}
	if notifier == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("notifier is required")
	}
	if sender == "" {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("sender address is required")
	}
	if logger == nil {
		return nil, oops.Code("RESET_MISSING_DEPENDENCY").Errorf("logger is required")
	}
	return &ForgetPasswordService{
		guardians: guardians,
		hasher:    hasher,
		notifier:  notifier,
		sender:    sender,
		logger:    logger,
	}, nil
}

// RequestReset generates a one-time reset code for the guardian with
// the given email, persists its hash as the verification token, and
// sends the plaintext code by notification.
//
// An unknown email returns (false, nil) with no side effects, so the
// caller cannot distinguish it from success without the mailbox. Any
// collaborator failure returns an error: "no account" and "system
// failure" are different outcomes.
func (s *ForgetPasswordService) RequestReset(ctx context.Context, email string) (bool, error) {
	guardian, err := s.guardians.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		err = oops.Code("RESET_REQUEST_FAILED").With("operation", "get guardian by email").Wrap(err)
		errutil.LogError(s.logger, "reset request lookup failed", err)
		return false, err
	}

	code, err := GenerateResetCode(ResetCodeDigits)
	if err != nil {
		err = oops.Code("RESET_REQUEST_FAILED").With("operation", "generate reset code").Wrap(err)
		errutil.LogError(s.logger, "reset code generation failed", err)
		return false, err
	}

	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		err = oops.Code("RESET_REQUEST_FAILED").With("operation", "hash reset code").Wrap(err)
		errutil.LogError(s.logger, "reset code hashing failed", err)
		return false, err
	}

	updated, err := s.guardians.UpdateVerificationToken(ctx, guardian.ID, codeHash)
	if err != nil {
		err = oops.Code("RESET_REQUEST_FAILED").With("operation", "persist verification token").Wrap(err)
		errutil.LogError(s.logger, "verification token persistence failed", err)
		return false, err
	}
	if !updated {
		err = oops.Code("RESET_REQUEST_FAILED").
			With("guardian_id", guardian.ID.String()).
			Errorf("guardian disappeared during reset request")
		errutil.LogError(s.logger, "verification token persistence failed", err)
		return false, err
	}

	if err := s.notifier.Send(ctx, ResetCodeMessage(s.sender, guardian, code)); err != nil {
		err = oops.Code("RESET_NOTIFY_FAILED").With("operation", "send reset code").Wrap(err)
		errutil.LogError(s.logger, "reset notification failed", err)
		return false, err
	}

	return true, nil
}
