// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package auth implements the guardian credential lifecycle.
//
// # Domain Types
//
// Guardian should be created through NewGuardian, which validates the
// identity fields and the email shape. Direct struct initialization
// bypasses validation and may create invalid state. Repository
// implementations receive pre-validated values from the constructor.
//
// # Services
//
// Service types coordinate the credential flows:
//   - Service - login: verify password, issue and persist access token
//   - RegisterService - registration with password hashing
//   - ForgetPasswordService - reset-code generation and delivery
//   - ResetCodeService - reset-code verification and token recovery
//
// Services are created with New*Service constructors that validate
// dependencies. Credential mismatches are reported through the
// sentinel errors in errors.go and matched with errors.Is; collaborator
// failures carry oops codes and propagate unretried.
package auth
