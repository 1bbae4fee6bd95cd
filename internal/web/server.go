// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package web exposes the credential flows over a JSON HTTP API.
// Handlers are thin: they decode request bodies, call a flow, and map
// typed outcomes onto status codes. No business logic lives here.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/petjournal/guardian/internal/auth"
	"github.com/petjournal/guardian/internal/observability"
)

// Flow ports consumed by the handlers. The concrete types are the
// auth package services; tests may substitute stubs.

// Authenticator is the login flow.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// Registrar is the registration flow.
type Registrar interface {
	Register(ctx context.Context, draft auth.Draft) (*auth.Guardian, error)
}

// ResetRequester is the forget-password flow.
type ResetRequester interface {
	RequestReset(ctx context.Context, email string) (bool, error)
}

// ResetConfirmer is the reset-code verification flow.
type ResetConfirmer interface {
	Authenticate(ctx context.Context, email, code string) (string, error)
}

// Services bundles the flow dependencies of the API.
type Services struct {
	Auth     Authenticator
	Register Registrar
	Forget   ResetRequester
	Confirm  ResetConfirmer
}

// Server serves the guardian JSON API.
type Server struct {
	addr       string
	services   Services
	metrics    *observability.Metrics
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a new API server. metrics may be nil (counters are
// then skipped); all flow services are required.
func NewServer(addr string, services Services, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if services.Auth == nil || services.Register == nil || services.Forget == nil || services.Confirm == nil {
		return nil, oops.Code("WEB_MISSING_DEPENDENCY").Errorf("all flow services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		services: services,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Handler returns the API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/guardian/login", s.handleLogin)
	mux.HandleFunc("POST /api/guardian/signup", s.handleSignup)
	mux.HandleFunc("POST /api/guardian/forget-password", s.handleForgetPassword)
	mux.HandleFunc("POST /api/guardian/waiting-code", s.handleWaitingCode)
	return mux
}

// Start begins serving the API. It returns an error channel that
// receives any errors from the HTTP server after startup; the channel
// is closed when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty when
// not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
