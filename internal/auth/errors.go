// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import "errors"

var (
	// ErrNotFound is returned when a requested guardian does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when the email is unknown or the
	// password does not match. Callers must not learn which.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidResetCode is returned when a supplied reset code does not
	// match the stored verification-token hash.
	ErrInvalidResetCode = errors.New("invalid reset code")

	// ErrConflict is returned when the email or phone is already registered.
	ErrConflict = errors.New("already registered")
)
