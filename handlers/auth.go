// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

type AuthHandler struct {
	authn  *auth.Authenticator
	issuer *auth.TokenIssuer
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{
		authn:  auth.NewAuthenticator(db),
		issuer: auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}
}

// Login handles POST /api/v1/auth/login
// Accepts a JSON body or an OAuth2 password form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	admin, err := h.authn.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	token, expiresAt, err := h.issuer.Issue(admin.Username)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("admin logged in", "username", admin.Username)

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}
