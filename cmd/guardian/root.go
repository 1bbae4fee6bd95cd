// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the guardian CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guardian",
		Short: "PetJournal guardian service",
		Long: `The guardian service manages PetJournal guardian accounts:
registration, login, and email-based password recovery.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewValidateSeedsCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
