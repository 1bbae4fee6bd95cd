// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/petjournal/guardian/internal/auth"
	authpg "github.com/petjournal/guardian/internal/auth/postgres"
	"github.com/petjournal/guardian/internal/config"
	"github.com/petjournal/guardian/internal/seed"
	"github.com/petjournal/guardian/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed guardian accounts from a YAML file",
		Long: `Registers the guardians listed in a seed YAML file.
This command is idempotent - guardians that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seeds/guardians.yaml", "seed file path")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	svcCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if svcCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required (flag, config file, or DATABASE_URL)")
	}

	seeds, err := seed.LoadFile(cfg.file)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(svcCfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	if err := migrator.Close(); err != nil {
		slog.Debug("error closing migrator", "error", err)
	}

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, svcCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	hasher, err := auth.NewBcryptHasher(svcCfg.HashCost)
	if err != nil {
		return err
	}
	registerSvc, err := auth.NewRegisterService(authpg.NewGuardianRepository(pool), hasher)
	if err != nil {
		return err
	}

	var created, skipped int
	for _, g := range seeds.Guardians {
		_, err := registerSvc.Register(ctx, auth.Draft{
			FirstName: g.FirstName,
			LastName:  g.LastName,
			Email:     g.Email,
			Phone:     g.Phone,
			Password:  g.Password,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, auth.ErrConflict):
			// Idempotent: already registered
			skipped++
		default:
			return oops.Code("SEED_FAILED").With("email", g.Email).Wrap(err)
		}
	}

	cmd.Printf("Seed complete: %d created, %d skipped\n", created, skipped)
	return nil
}
