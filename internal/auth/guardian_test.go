// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petjournal/guardian/internal/auth"
	"github.com/petjournal/guardian/pkg/errutil"
)

func TestNewGuardian(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		g, err := auth.NewGuardian("Frida", "Kahlo", "frida@example.com", "11987654321", "$2a$12$digest")
		require.NoError(t, err)
		assert.NotZero(t, g.ID)
		assert.Equal(t, "Frida Kahlo", g.FullName())
		assert.Empty(t, g.AccessToken)
		assert.Empty(t, g.VerificationTokenHash)
		assert.False(t, g.CreatedAt.IsZero())
		assert.Equal(t, g.CreatedAt, g.UpdatedAt)
	})

	t.Run("two guardians get distinct ids", func(t *testing.T) {
		a, err := auth.NewGuardian("Frida", "Kahlo", "frida@example.com", "11987654321", "$2a$12$digest")
		require.NoError(t, err)
		b, err := auth.NewGuardian("Frida", "Kahlo", "frida@example.com", "11987654321", "$2a$12$digest")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	tests := []struct {
		name       string
		firstName  string
		lastName   string
		email      string
		phone      string
		hash       string
		expectCode string
	}{
		{"empty first name", "", "Kahlo", "frida@example.com", "11987654321", "$2a$12$digest", "GUARDIAN_INVALID_NAME"},
		{"empty last name", "Frida", "", "frida@example.com", "11987654321", "$2a$12$digest", "GUARDIAN_INVALID_NAME"},
		{"empty email", "Frida", "Kahlo", "", "11987654321", "$2a$12$digest", "GUARDIAN_INVALID_EMAIL"},
		{"malformed email", "Frida", "Kahlo", "frida@localhost", "11987654321", "$2a$12$digest", "GUARDIAN_INVALID_EMAIL"},
		{"empty phone", "Frida", "Kahlo", "frida@example.com", "", "$2a$12$digest", "GUARDIAN_INVALID_PHONE"},
		{"empty password hash", "Frida", "Kahlo", "frida@example.com", "11987654321", "", "GUARDIAN_INVALID_HASH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := auth.NewGuardian(tt.firstName, tt.lastName, tt.email, tt.phone, tt.hash)
			assert.Nil(t, g)
			errutil.AssertErrorCode(t, err, tt.expectCode)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"frida@example.com",
		"first.last@sub.example.co",
		"user+tag@example.org",
	}
	for _, email := range valid {
		assert.NoError(t, auth.ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@nodot",
		"two words@example.com",
		"user@@example.com",
	}
	for _, email := range invalid {
		assert.Error(t, auth.ValidateEmail(email), email)
	}
}
