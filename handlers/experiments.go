// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/experiments"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

// maxConfigBytes bounds an uploaded experiment configuration
const maxConfigBytes = 8 << 20

type ExperimentHandler struct {
	repo *experiments.Repository
	cfg  cliparse.Config
}

func NewExperimentHandler(db *sql.DB, cfg cliparse.Config) *ExperimentHandler {
	return &ExperimentHandler{repo: experiments.NewRepository(db), cfg: cfg}
}

// List handles GET /api/v1/experiments
func (h *ExperimentHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeNames(w, r)
}

// Showcase handles GET /api/v1/experiments/showcase
func (h *ExperimentHandler) Showcase(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.GetAll(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, all)
}

// Create handles POST /api/v1/experiments
func (h *ExperimentHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, ok := parseExperimentName(w, r)
	if !ok {
		return
	}

	if err := h.repo.Create(r.Context(), name); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("experiment created", "name", name)

	h.writeNames(w, r)
}

// Delete handles DELETE /api/v1/experiments
func (h *ExperimentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, ok := parseExperimentName(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), name); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("experiment deleted", "name", name)

	h.writeNames(w, r)
}

// Get handles GET /api/v1/experiments/{name}
func (h *ExperimentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.repo.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// Configure handles POST /api/v1/experiments/{name}
// The configuration is either a multipart "file" field or the raw JSON body.
func (h *ExperimentHandler) Configure(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	r.Body = http.MaxBytesReader(w, r.Body, maxConfigBytes)
	data, err := readConfigUpload(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := h.repo.Configure(r.Context(), name, data); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("experiment configured", "name", name)

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *ExperimentHandler) writeNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.List(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ExperimentsList{Experiments: names})
}

func parseExperimentName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.ExperimentNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return "", false
	}
	if strings.TrimSpace(req.Name) == "" {
		middleware.WriteError(w, apperr.IncorrectInputData("name is required"))
		return "", false
	}
	return req.Name, true
}

func readConfigUpload(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		defer r.Body.Close()
		return readUpload(r.Body)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, apperr.IncorrectInputData("multipart field \"file\" is required")
	}
	defer file.Close()
	return readUpload(file)
}

func readUpload(src io.Reader) ([]byte, error) {
	data, err := io.ReadAll(src)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, apperr.IncorrectInputData("configuration is too large")
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
