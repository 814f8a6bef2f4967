// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/pqtoolkit/pq-toolkit-api/experiments"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/results"
)

type TestHandler struct {
	repo *experiments.Repository
	agg  *results.Aggregator
}

func NewTestHandler(db *sql.DB) *TestHandler {
	return &TestHandler{repo: experiments.NewRepository(db), agg: results.NewAggregator(db)}
}

// Get handles GET /api/v1/tests/{id}
func (h *TestHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.repo.GetTest(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// Results handles GET /api/v1/tests/{id}/results
func (h *TestHandler) Results(w http.ResponseWriter, r *http.Request) {
	stored, err := h.agg.ResultsForTest(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ResultsList{Results: stored})
}
