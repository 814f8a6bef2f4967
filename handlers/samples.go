// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/samples"
)

const (
	defaultMaxResults = 10
	sampleContentType = "audio/mpeg"
)

type SampleHandler struct {
	svc *samples.Service
}

func NewSampleHandler(db *sql.DB, store blobstore.Store) *SampleHandler {
	return &SampleHandler{svc: samples.NewService(db, store)}
}

// List handles GET /api/v1/samples?first_result=0&max_results=10
func (h *SampleHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "first_result", 0)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "max_results", defaultMaxResults)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	page, err := h.svc.ListWithAverages(r.Context(), offset, limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, page)
}

// Upload handles POST /api/v1/samples (multipart "files")
func (h *SampleHandler) Upload(w http.ResponseWriter, r *http.Request) {
	n, err := eachUploadedFile(r, func(name string, part io.Reader) error {
		_, err := h.svc.Upload(r.Context(), name, part)
		return err
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("samples uploaded", "count", n)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Search handles GET /api/v1/samples/search?title=...
func (h *SampleHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.Search(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, matches)
}

// Get handles GET /api/v1/samples/{filename}
func (h *SampleHandler) Get(w http.ResponseWriter, r *http.Request) {
	rc, err := h.svc.Get(r.Context(), r.PathValue("filename"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	streamSample(w, rc)
}

// Delete handles DELETE /api/v1/samples/{filename}
func (h *SampleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if err := h.svc.Delete(r.Context(), filename); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("sample deleted", "filename", filename)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Rate handles POST /api/v1/samples/{filename}/rate
func (h *SampleHandler) Rate(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	var req models.RateSampleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Rating == nil {
		middleware.WriteError(w, apperr.IncorrectInputData("rating is required"))
		return
	}

	if err := h.svc.Rate(r.Context(), filename, *req.Rating); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("sample rated", "filename", filename, "rating", *req.Rating)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// ListExperiment handles GET /api/v1/experiments/{name}/samples
func (h *SampleHandler) ListExperiment(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListExperiment(r.Context(), r.PathValue("name"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, names)
}

// UploadExperiment handles POST /api/v1/experiments/{name}/samples (multipart "file")
func (h *SampleHandler) UploadExperiment(w http.ResponseWriter, r *http.Request) {
	experiment := r.PathValue("name")
	n, err := eachUploadedFile(r, func(name string, part io.Reader) error {
		_, err := h.svc.UploadExperiment(r.Context(), experiment, name, part)
		return err
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("experiment samples uploaded", "experiment", experiment, "count", n)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// GetExperiment handles GET /api/v1/experiments/{name}/samples/{filename}
func (h *SampleHandler) GetExperiment(w http.ResponseWriter, r *http.Request) {
	rc, err := h.svc.GetExperiment(r.Context(), r.PathValue("name"), r.PathValue("filename"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	streamSample(w, rc)
}

// DeleteExperiment handles DELETE /api/v1/experiments/{name}/samples/{filename}
func (h *SampleHandler) DeleteExperiment(w http.ResponseWriter, r *http.Request) {
	experiment, filename := r.PathValue("name"), r.PathValue("filename")
	if err := h.svc.DeleteExperiment(r.Context(), experiment, filename); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("experiment sample deleted", "experiment", experiment, "filename", filename)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// streamSample copies the sample to the client and closes it. A client
// that goes away ends the copy.
func streamSample(w http.ResponseWriter, rc io.ReadCloser) {
	defer rc.Close()
	w.Header().Set("Content-Type", sampleContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("sample stream interrupted", "error", err)
	}
}

// eachUploadedFile streams every file part of a multipart form named
// "file" or "files" to fn and returns how many were handled.
func eachUploadedFile(r *http.Request, fn func(name string, part io.Reader) error) (int, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return 0, apperr.IncorrectInputData("multipart form expected")
	}

	count := 0
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, apperr.IncorrectInputData("malformed multipart form")
		}

		name := part.FileName()
		field := part.FormName()
		if name == "" || (field != "file" && field != "files") {
			part.Close()
			continue
		}

		err = fn(name, part)
		part.Close()
		if err != nil {
			return count, err
		}
		count++
	}

	if count == 0 {
		return 0, apperr.IncorrectInputData("no files uploaded")
	}
	return count, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.IncorrectInputData(key + " must be a non-negative integer")
	}
	return v, nil
}
