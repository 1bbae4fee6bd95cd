// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petjournal/guardian/internal/auth"
	"github.com/petjournal/guardian/pkg/errutil"
)

func TestGenerateResetCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)

	// Zero-padding matters: roughly 1 in 10 codes starts with a zero and
	// a length check alone would not catch dropping it.
	for range 50 {
		code, err := auth.GenerateResetCode(auth.ResetCodeDigits)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateResetCode_Lengths(t *testing.T) {
	for _, digits := range []int{1, 4, 8} {
		code, err := auth.GenerateResetCode(digits)
		require.NoError(t, err)
		assert.Len(t, code, digits)
	}
}

func TestGenerateResetCode_InvalidDigits(t *testing.T) {
	for _, digits := range []int{0, -1} {
		code, err := auth.GenerateResetCode(digits)
		assert.Empty(t, code)
		errutil.AssertErrorCode(t, err, "RESET_CODE_GENERATE_FAILED")
	}
}
