// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/petjournal/guardian/internal/seed"
)

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate-seeds",
		Short: "Validate a guardian seed file without touching the database",
		Long: `Validates a guardian seed YAML file against its JSON Schema.
Does NOT start the server or require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch seed file errors early:
  guardian validate-seeds --file seeds/guardians.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			cmd.Printf("Seed file valid: %d guardians\n", len(f.Guardians))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "seeds/guardians.yaml", "seed file path")

	return cmd
}
