// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package mocks provides testify mocks for the auth package ports.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/petjournal/guardian/internal/auth"
)

// testingT is the subset of *testing.T the mock constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockGuardianRepository mocks the full auth.GuardianRepository surface.
type MockGuardianRepository struct {
	mock.Mock
}

// NewMockGuardianRepository creates a MockGuardianRepository that
// asserts its expectations during test cleanup.
func NewMockGuardianRepository(t testingT) *MockGuardianRepository {
	m := &MockGuardianRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGuardianRepository) GetByEmail(ctx context.Context, email string) (*auth.Guardian, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Guardian, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) Create(ctx context.Context, guardian *auth.Guardian) error {
	args := m.Called(ctx, guardian)
	return args.Error(0)
}

func (m *MockGuardianRepository) UpdateAccessToken(ctx context.Context, id ulid.ULID, token string) (bool, error) {
	args := m.Called(ctx, id, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardianRepository) UpdateVerificationToken(ctx context.Context, id ulid.ULID, tokenHash string) (bool, error) {
	args := m.Called(ctx, id, tokenHash)
	return args.Bool(0), args.Error(1)
}

// MockSecretHasher mocks auth.SecretHasher.
type MockSecretHasher struct {
	mock.Mock
}

// NewMockSecretHasher creates a MockSecretHasher that asserts its
// expectations during test cleanup.
func NewMockSecretHasher(t testingT) *MockSecretHasher {
	m := &MockSecretHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSecretHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *MockSecretHasher) Verify(secret, hash string) (bool, error) {
	args := m.Called(secret, hash)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer mocks auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer that asserts its
// expectations during test cleanup.
func NewMockTokenIssuer(t testingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) Issue(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

// MockNotifier mocks auth.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier that asserts its expectations
// during test cleanup.
func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Send(ctx context.Context, msg auth.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
