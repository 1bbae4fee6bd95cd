// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/petjournal/guardian/internal/auth"
	authpg "github.com/petjournal/guardian/internal/auth/postgres"
	"github.com/petjournal/guardian/internal/config"
	"github.com/petjournal/guardian/internal/logging"
	"github.com/petjournal/guardian/internal/mail"
	"github.com/petjournal/guardian/internal/observability"
	"github.com/petjournal/guardian/internal/store"
	"github.com/petjournal/guardian/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the guardian API server",
		Long: `Start the guardian HTTP API server along with the
metrics/health observability server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("api-addr", defaults.APIAddr, "API listen address")
	cmd.Flags().String("metrics-addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	cmd.Flags().String("token-secret", "", "JWT signing secret")
	cmd.Flags().Duration("token-ttl", defaults.TokenTTL, "access token lifetime")
	cmd.Flags().Int("hash-cost", defaults.HashCost, "bcrypt hash cost")
	cmd.Flags().String("log-format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().String("smtp-host", defaults.SMTPHost, "SMTP relay host")
	cmd.Flags().Int("smtp-port", defaults.SMTPPort, "SMTP relay port")
	cmd.Flags().String("smtp-username", "", "SMTP username (empty = no auth)")
	cmd.Flags().String("smtp-password", "", "SMTP password")
	cmd.Flags().String("mail-sender", defaults.MailSender, "From address for recovery emails")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required (flag, config file, or DATABASE_URL)")
	}
	if cfg.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token-secret is required")
	}

	logging.SetDefault("guardian", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	slog.Info("connecting to database")
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := authpg.NewGuardianRepository(pool)

	hasher, err := auth.NewBcryptHasher(cfg.HashCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewJWTIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	notifier, err := mail.NewSMTPNotifier(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		return err
	}

	loginSvc, err := auth.NewAuthServiceWithLogger(repo, hasher, tokens, logger)
	if err != nil {
		return err
	}
	registerSvc, err := auth.NewRegisterServiceWithLogger(repo, hasher, logger)
	if err != nil {
		return err
	}
	forgetSvc, err := auth.NewForgetPasswordServiceWithLogger(repo, hasher, notifier, cfg.MailSender, logger)
	if err != nil {
		return err
	}
	confirmSvc, err := auth.NewResetCodeServiceWithLogger(repo, hasher, tokens, logger)
	if err != nil {
		return err
	}

	// Observability server is optional; metrics counters follow it.
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrChan, startErr := obsServer.Start()
		if startErr != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(startErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer, err := web.NewServer(cfg.APIAddr, web.Services{
		Auth:     loginSvc,
		Register: registerSvc,
		Forget:   forgetSvc,
		Confirm:  confirmSvc,
	}, metrics, logger)
	if err != nil {
		return err
	}
	apiErrChan, err := apiServer.Start()
	if err != nil {
		return oops.Code("WEB_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	cmd.Println("Guardian service started")
	slog.Info("guardian service ready", "api_addr", apiServer.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping API server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches a server error channel and cancels the
// run context on the first error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
