// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package errutil provides helpers for logging and asserting on
// oops-coded errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors it extracts the message, code, and context; standard
// errors are logged as plain strings.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}

// HasCode reports whether err is an oops error carrying the given code.
func HasCode(err error, code string) bool {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code() == code
	}
	return false
}
