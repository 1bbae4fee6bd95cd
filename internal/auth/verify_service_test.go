// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petjournal/guardian/internal/auth"
	"github.com/petjournal/guardian/internal/auth/mocks"
	"github.com/petjournal/guardian/pkg/errutil"
)

func TestNewResetCodeService_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		guardians   auth.ResetConfirmStore
		hasher      auth.SecretHasher
		tokens      auth.TokenIssuer
		expectError string
	}{
		{
			name:        "nil guardians store",
			guardians:   nil,
			hasher:      mocks.NewMockSecretHasher(t),
			tokens:      mocks.NewMockTokenIssuer(t),
			expectError: "guardians store is required",
		},
		{
			name:        "nil secret hasher",
			guardians:   mocks.NewMockGuardianRepository(t),
			hasher:      nil,
			tokens:      mocks.NewMockTokenIssuer(t),
			expectError: "secret hasher is required",
		},
		{
			name:        "nil token issuer",
			guardians:   mocks.NewMockGuardianRepository(t),
			hasher:      mocks.NewMockSecretHasher(t),
			tokens:      nil,
			expectError: "token issuer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewResetCodeService(tt.guardians, tt.hasher, tt.tokens)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestResetCodeService_Authenticate(t *testing.T) {
	ctx := context.Background()

	newGuardian := func() *auth.Guardian {
		return &auth.Guardian{
			ID:                    ulid.Make(),
			FirstName:             "Frida",
			LastName:              "Kahlo",
			Email:                 "frida@example.com",
			Phone:                 "11987654321",
			VerificationTokenHash: "hashed-code",
		}
	}

	t.Run("valid code issues recovery token and burns the code", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)
		hasher.On("Verify", "123456", "hashed-code").Return(true, nil)
		tokens.On("Issue", guardian.ID.String()).Return("recovery.jwt.token", nil)
		guardians.On("UpdateAccessToken", ctx, guardian.ID, "recovery.jwt.token").Return(true, nil)
		guardians.On("UpdateVerificationToken", ctx, guardian.ID, "").Return(true, nil)

		token, err := svc.Authenticate(ctx, "frida@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "recovery.jwt.token", token)
	})

	t.Run("unknown email surfaces not found", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardians.On("GetByEmail", ctx, "nobody@example.com").Return(nil, auth.ErrNotFound)

		token, err := svc.Authenticate(ctx, "nobody@example.com", "123456")
		assert.Empty(t, token)
		errutil.AssertErrorIs(t, err, auth.ErrNotFound, "GUARDIAN_NOT_FOUND")
		errutil.AssertErrorContext(t, err, "field", "email")
	})

	t.Run("no pending code fails before the hasher", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		// No expectations: any Verify call fails the test.
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardian.VerificationTokenHash = ""
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)

		token, err := svc.Authenticate(ctx, "frida@example.com", "123456")
		assert.Empty(t, token)
		errutil.AssertErrorIs(t, err, auth.ErrInvalidResetCode, "RESET_CODE_INVALID")
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)
		hasher.On("Verify", "999999", "hashed-code").Return(false, nil)

		token, err := svc.Authenticate(ctx, "frida@example.com", "999999")
		assert.Empty(t, token)
		errutil.AssertErrorIs(t, err, auth.ErrInvalidResetCode, "RESET_CODE_INVALID")
	})

	t.Run("token issuance failure propagates", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)
		hasher.On("Verify", "123456", "hashed-code").Return(true, nil)
		tokens.On("Issue", guardian.ID.String()).Return("", errors.New("signing failed"))

		_, err = svc.Authenticate(ctx, "frida@example.com", "123456")
		errutil.AssertErrorCode(t, err, "RESET_CONFIRM_FAILED")
	})

	t.Run("failure to burn the code is an error", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)
		hasher.On("Verify", "123456", "hashed-code").Return(true, nil)
		tokens.On("Issue", guardian.ID.String()).Return("recovery.jwt.token", nil)
		guardians.On("UpdateAccessToken", ctx, guardian.ID, "recovery.jwt.token").Return(true, nil)
		guardians.On("UpdateVerificationToken", ctx, guardian.ID, "").
			Return(false, errors.New("connection reset"))

		token, err := svc.Authenticate(ctx, "frida@example.com", "123456")
		assert.Empty(t, token)
		errutil.AssertErrorCode(t, err, "RESET_CONFIRM_FAILED")
	})

	t.Run("guardian deleted before the code is burned", func(t *testing.T) {
		guardians := mocks.NewMockGuardianRepository(t)
		hasher := mocks.NewMockSecretHasher(t)
		tokens := mocks.NewMockTokenIssuer(t)
		svc, err := auth.NewResetCodeService(guardians, hasher, tokens)
		require.NoError(t, err)

		guardian := newGuardian()
		guardians.On("GetByEmail", ctx, "frida@example.com").Return(guardian, nil)
		hasher.On("Verify", "123456", "hashed-code").Return(true, nil)
		tokens.On("Issue", guardian.ID.String()).Return("recovery.jwt.token", nil)
		guardians.On("UpdateAccessToken", ctx, guardian.ID, "recovery.jwt.token").Return(true, nil)
		guardians.On("UpdateVerificationToken", ctx, guardian.ID, "").Return(false, nil)

		token, err := svc.Authenticate(ctx, "frida@example.com", "123456")
		assert.Empty(t, token)
		errutil.AssertErrorCode(t, err, "RESET_CONFIRM_FAILED")
		errutil.AssertErrorContext(t, err, "guardian_id", guardian.ID.String())
	})
}
