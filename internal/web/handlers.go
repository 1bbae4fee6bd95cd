// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petjournal/guardian/internal/auth"
	"github.com/petjournal/guardian/pkg/errutil"
)

// maxBodyBytes bounds request bodies; every payload here is tiny.
const maxBodyBytes = 64 << 10

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type forgetPasswordRequest struct {
	Email string `json:"email"`
}

type waitingCodeRequest struct {
	Email              string `json:"email"`
	ForgetPasswordCode string `json:"forgetPasswordCode"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type guardianResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := s.services.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.countLogin("invalid")
			s.writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.countLogin("error")
		errutil.LogError(s.logger, "login failed", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.countLogin("success")
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !s.decode(w, r, &req) {
		return
	}

	guardian, err := s.services.Register.Register(r.Context(), auth.Draft{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			s.countSignup("conflict")
			s.writeError(w, http.StatusConflict, "email or phone already registered")
		case isValidationError(err):
			s.countSignup("invalid")
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.countSignup("error")
			errutil.LogError(s.logger, "signup failed", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.countSignup("success")
	s.writeJSON(w, http.StatusCreated, guardianResponse{
		ID:        guardian.ID.String(),
		FirstName: guardian.FirstName,
		LastName:  guardian.LastName,
		Email:     guardian.Email,
		Phone:     guardian.Phone,
	})
}

func (s *Server) handleForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req forgetPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		s.writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	// The response is identical whether or not the email is registered,
	// so the endpoint cannot be used for account enumeration.
	if _, err := s.services.Forget.RequestReset(r.Context(), req.Email); err != nil {
		errutil.LogError(s.logger, "forget-password failed", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if s.metrics != nil {
		s.metrics.ResetRequestsTotal.Inc()
	}

	s.writeJSON(w, http.StatusOK, messageResponse{
		Message: "if the email is registered, a verification code has been sent",
	})
}

func (s *Server) handleWaitingCode(w http.ResponseWriter, r *http.Request) {
	var req waitingCodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.ForgetPasswordCode == "" {
		s.writeError(w, http.StatusBadRequest, "email and forgetPasswordCode are required")
		return
	}

	token, err := s.services.Confirm.Authenticate(r.Context(), req.Email, req.ForgetPasswordCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			s.countResetConfirm("not_found")
			s.writeError(w, http.StatusNotFound, "email not registered")
		case errors.Is(err, auth.ErrInvalidResetCode):
			s.countResetConfirm("invalid")
			s.writeError(w, http.StatusUnauthorized, "invalid verification code")
		default:
			s.countResetConfirm("error")
			errutil.LogError(s.logger, "waiting-code failed", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.countResetConfirm("success")
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

// decode reads a bounded JSON body into dst. On failure it writes a 400
// and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response write failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// isValidationError reports whether err carries one of the
// GUARDIAN_INVALID_* validation codes.
func isValidationError(err error) bool {
	for _, code := range []string{
		"GUARDIAN_INVALID_NAME",
		"GUARDIAN_INVALID_EMAIL",
		"GUARDIAN_INVALID_PHONE",
		"GUARDIAN_INVALID_PASSWORD",
	} {
		if errutil.HasCode(err, code) {
			return true
		}
	}
	return false
}

func (s *Server) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countSignup(status string) {
	if s.metrics != nil {
		s.metrics.SignupsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countResetConfirm(status string) {
	if s.metrics != nil {
		s.metrics.ResetConfirmsTotal.WithLabelValues(status).Inc()
	}
}
