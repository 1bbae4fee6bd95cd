// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package postgres implements the auth store capabilities using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/petjournal/guardian/internal/auth"
)

// querier is the subset of pgxpool.Pool the repository uses. It lets
// tests substitute a pgxmock connection.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GuardianRepository implements auth.GuardianRepository using PostgreSQL.
type GuardianRepository struct {
	db querier
}

// NewGuardianRepository creates a new GuardianRepository.
func NewGuardianRepository(db querier) *GuardianRepository {
	return &GuardianRepository{db: db}
}

const guardianColumns = `id, first_name, last_name, email, phone,
	       password_hash, access_token, verification_token,
	       created_at, updated_at`

// Create stores a new guardian. A duplicate email or phone maps the
// unique-violation onto auth.ErrConflict.
func (r *GuardianRepository) Create(ctx context.Context, guardian *auth.Guardian) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO guardians (
			id, first_name, last_name, email, phone,
			password_hash, access_token, verification_token,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		guardian.ID.String(),
		guardian.FirstName,
		guardian.LastName,
		guardian.Email,
		guardian.Phone,
		guardian.PasswordHash,
		nullable(guardian.AccessToken),
		nullable(guardian.VerificationTokenHash),
		guardian.CreatedAt,
		guardian.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("GUARDIAN_ALREADY_REGISTERED").
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrConflict)
		}
		return oops.Code("GUARDIAN_CREATE_FAILED").
			With("operation", "insert guardian").
			With("email", guardian.Email).
			Wrap(err)
	}
	return nil
}

// GetByEmail retrieves a guardian by email (case-insensitive).
func (r *GuardianRepository) GetByEmail(ctx context.Context, email string) (*auth.Guardian, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+guardianColumns+`
		FROM guardians
		WHERE LOWER(email) = LOWER($1)
	`, email)

	guardian, err := scanGuardian(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GUARDIAN_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GUARDIAN_GET_BY_EMAIL_FAILED").
			With("operation", "get guardian by email").
			With("email", email).
			Wrap(err)
	}
	return guardian, nil
}

// GetByID retrieves a guardian by id.
func (r *GuardianRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Guardian, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+guardianColumns+`
		FROM guardians
		WHERE id = $1
	`, id.String())

	guardian, err := scanGuardian(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GUARDIAN_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GUARDIAN_GET_BY_ID_FAILED").
			With("operation", "get guardian by id").
			With("id", id.String()).
			Wrap(err)
	}
	return guardian, nil
}

// UpdateAccessToken overwrites the guardian's access token in a single
// statement. Returns false when no guardian with the given id exists.
func (r *GuardianRepository) UpdateAccessToken(ctx context.Context, id ulid.ULID, token string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE guardians
		SET access_token = $2, updated_at = NOW()
		WHERE id = $1
	`, id.String(), nullable(token))
	if err != nil {
		return false, oops.Code("GUARDIAN_UPDATE_TOKEN_FAILED").
			With("operation", "update access token").
			With("id", id.String()).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateVerificationToken overwrites the guardian's verification-token
// hash in a single statement. An empty hash clears the column. Returns
// false when no guardian with the given id exists.
func (r *GuardianRepository) UpdateVerificationToken(ctx context.Context, id ulid.ULID, tokenHash string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE guardians
		SET verification_token = $2, updated_at = NOW()
		WHERE id = $1
	`, id.String(), nullable(tokenHash))
	if err != nil {
		return false, oops.Code("GUARDIAN_UPDATE_TOKEN_FAILED").
			With("operation", "update verification token").
			With("id", id.String()).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanGuardian scans a guardian row, mapping NULL token columns onto
// empty strings.
func scanGuardian(row pgx.Row) (*auth.Guardian, error) {
	var g auth.Guardian
	var idStr string
	var accessToken, verificationToken *string

	err := row.Scan(
		&idStr,
		&g.FirstName,
		&g.LastName,
		&g.Email,
		&g.Phone,
		&g.PasswordHash,
		&accessToken,
		&verificationToken,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("GUARDIAN_CORRUPT_ID").With("id", idStr).Wrap(err)
	}
	if accessToken != nil {
		g.AccessToken = *accessToken
	}
	if verificationToken != nil {
		g.VerificationTokenHash = *verificationToken
	}
	return &g, nil
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
