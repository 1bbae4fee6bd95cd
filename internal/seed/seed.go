// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package seed loads and validates guardian seed files used to
// bootstrap development and staging environments.
package seed

import (
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Guardian is a single seed entry. Passwords are plaintext in seed
// files and hashed on registration.
type Guardian struct {
	FirstName string `yaml:"first_name" json:"first_name" jsonschema:"required,minLength=1"`
	LastName  string `yaml:"last_name" json:"last_name" jsonschema:"required,minLength=1"`
	Email     string `yaml:"email" json:"email" jsonschema:"required,format=email"`
	Phone     string `yaml:"phone" json:"phone" jsonschema:"required,minLength=1"`
	Password  string `yaml:"password" json:"password" jsonschema:"required,minLength=8"`
}

// File is the top-level structure of a guardian seed file.
type File struct {
	Guardians []Guardian `yaml:"guardians" json:"guardians" jsonschema:"required"`
}

// LoadFile reads, schema-validates, and decodes the seed file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}
	return &f, nil
}
