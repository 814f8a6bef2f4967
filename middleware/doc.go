// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# CORS Middleware

Enable cross-origin requests for the listening-test UI:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# Admin Guard

Admin routes require a bearer token issued by the login endpoint:

	mux.HandleFunc("POST /api/v1/experiments",
		middleware.WithLogging(middleware.RequireAdmin(issuer, h.Create)))

Missing or invalid tokens get a 401 with kind UNAUTHORIZED. The admin
username is available through AdminFromContext.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
	middleware.WriteError(w, err)

WriteError maps domain errors to their status (404 not found, 409
conflict, 400 bad input) with the error kind in the body. Other errors are
logged and answered with a generic 500.
*/
package middleware
