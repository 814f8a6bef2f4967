// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package router defines HTTP routes for the pq-toolkit API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, store)

# Endpoints

Health:

	GET /health

Auth:

	POST /api/v1/auth/login - Exchange admin credentials for a bearer token

Experiments (admin routes marked *):

	GET    /api/v1/experiments          - Experiment names
	POST   /api/v1/experiments        * - Create {"name": ...}
	DELETE /api/v1/experiments        * - Delete {"name": ...}
	GET    /api/v1/experiments/showcase - Every experiment with tests and results
	GET    /api/v1/experiments/{name}   - Configured experiment
	POST   /api/v1/experiments/{name} * - Upload configuration

Results:

	GET  /api/v1/experiments/{name}/results         - All results
	POST /api/v1/experiments/{name}/results         - Submit a batch
	GET  /api/v1/experiments/{name}/results/{token} - One batch

Samples:

	GET    /api/v1/experiments/{name}/samples
	POST   /api/v1/experiments/{name}/samples            *
	GET    /api/v1/experiments/{name}/samples/{filename}
	DELETE /api/v1/experiments/{name}/samples/{filename} *
	GET    /api/v1/samples                  - Files with average ratings
	POST   /api/v1/samples                * - Upload files
	GET    /api/v1/samples/search?title=
	GET    /api/v1/samples/{filename}
	DELETE /api/v1/samples/{filename}     *
	POST   /api/v1/samples/{filename}/rate

Tests:

	GET /api/v1/tests/{id}
	GET /api/v1/tests/{id}/results

Admin routes are wrapped in middleware.RequireAdmin; every API route is
wrapped in middleware.WithLogging.
*/
package router
