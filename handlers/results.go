// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/results"
)

// maxResultsBytes bounds one submitted batch
const maxResultsBytes = 4 << 20

type ResultsHandler struct {
	agg *results.Aggregator
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{agg: results.NewAggregator(db), cfg: cfg}
}

// Submit handles POST /api/v1/experiments/{name}/results
func (h *ResultsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	r.Body = http.MaxBytesReader(w, r.Body, maxResultsBytes)
	payload, err := readUpload(r.Body)
	r.Body.Close()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	batch, err := h.agg.Submit(r.Context(), name, payload)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("results submitted", "experiment", name, "batch", batch.Token, "count", len(batch.Results))

	middleware.JSONResponse(w, http.StatusOK, models.ResultsList{
		Results:       batch.Results,
		ExperimentUse: batch.Token,
	})
}

// List handles GET /api/v1/experiments/{name}/results
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeResults(w, r, "")
}

// ListBatch handles GET /api/v1/experiments/{name}/results/{token}
func (h *ResultsHandler) ListBatch(w http.ResponseWriter, r *http.Request) {
	h.writeResults(w, r, r.PathValue("token"))
}

func (h *ResultsHandler) writeResults(w http.ResponseWriter, r *http.Request, token string) {
	stored, err := h.agg.GetResults(r.Context(), r.PathValue("name"), token)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ResultsList{Results: stored})
}

