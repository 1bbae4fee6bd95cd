// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth

import (
	"crypto/rand"
	"math/big"

	"github.com/samber/oops"
)

// ResetCodeDigits is the length of the one-time reset code sent to
// guardians by email.
const ResetCodeDigits = 6

// GenerateResetCode creates a uniformly random numeric code with the
// given number of digits, zero-padded. Only the bcrypt hash of the code
// is ever persisted.
func GenerateResetCode(digits int) (string, error) {
	if digits <= 0 {
		return "", oops.Code("RESET_CODE_GENERATE_FAILED").
			With("digits", digits).
			Errorf("digits must be positive")
	}

	max := big.NewInt(1)
	for range digits {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", oops.Code("RESET_CODE_GENERATE_FAILED").Wrap(err)
	}

	code := n.String()
	for len(code) < digits {
		code = "0" + code
	}
	return code, nil
}
