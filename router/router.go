// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/handlers"
	"github.com/pqtoolkit/pq-toolkit-api/middleware"
)

const apiPrefix = "/api/v1"

func NewRouter(db *sql.DB, cfg cliparse.Config, store blobstore.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	experimentHandler := handlers.NewExperimentHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	sampleHandler := handlers.NewSampleHandler(db, store)
	testHandler := handlers.NewTestHandler(db)
	authHandler := handlers.NewAuthHandler(db, cfg)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	public := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(h))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.RequireAdmin(issuer, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	public("POST "+apiPrefix+"/auth/login", authHandler.Login)

	// Experiments
	public("GET "+apiPrefix+"/experiments", experimentHandler.List)
	admin("POST "+apiPrefix+"/experiments", experimentHandler.Create)
	admin("DELETE "+apiPrefix+"/experiments", experimentHandler.Delete)
	public("GET "+apiPrefix+"/experiments/showcase", experimentHandler.Showcase)
	public("GET "+apiPrefix+"/experiments/{name}", experimentHandler.Get)
	admin("POST "+apiPrefix+"/experiments/{name}", experimentHandler.Configure)

	// Results (public, submitted by listeners)
	public("GET "+apiPrefix+"/experiments/{name}/results", resultsHandler.List)
	public("POST "+apiPrefix+"/experiments/{name}/results", resultsHandler.Submit)
	public("GET "+apiPrefix+"/experiments/{name}/results/{token}", resultsHandler.ListBatch)

	// Experiment samples
	public("GET "+apiPrefix+"/experiments/{name}/samples", sampleHandler.ListExperiment)
	admin("POST "+apiPrefix+"/experiments/{name}/samples", sampleHandler.UploadExperiment)
	public("GET "+apiPrefix+"/experiments/{name}/samples/{filename}", sampleHandler.GetExperiment)
	admin("DELETE "+apiPrefix+"/experiments/{name}/samples/{filename}", sampleHandler.DeleteExperiment)

	// Global samples and ratings
	public("GET "+apiPrefix+"/samples", sampleHandler.List)
	admin("POST "+apiPrefix+"/samples", sampleHandler.Upload)
	public("GET "+apiPrefix+"/samples/search", sampleHandler.Search)
	public("GET "+apiPrefix+"/samples/{filename}", sampleHandler.Get)
	admin("DELETE "+apiPrefix+"/samples/{filename}", sampleHandler.Delete)
	public("POST "+apiPrefix+"/samples/{filename}/rate", sampleHandler.Rate)

	// Tests
	public("GET "+apiPrefix+"/tests/{id}", testHandler.Get)
	public("GET "+apiPrefix+"/tests/{id}/results", testHandler.Results)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pq-toolkit API v1"))
	})

	return mux
}
