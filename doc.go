// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package main provides the entry point for the pq-toolkit API server.

pq-toolkit runs perceptual-quality listening experiments: listeners
compare audio samples in AB, ABX, MUSHRA and APE tests, and the server
stores their answers per experiment alongside sample ratings.

# Starting the Server

The server reads configuration from the environment (and an optional
.env file) or from CLI flags:

	JWT_SECRET=... DATABASE_URL=pq.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file/DSN or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Secret for admin bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SAMPLES_DIR (-samples): Audio sample directory (default: ./samples)
  - TOKEN_TTL: Admin token lifetime (default: 24h)
  - ADMIN_USERNAME, ADMIN_PASSWORD: Admin account created on startup

# Architecture

  - experiments, results, samples: Core operations
  - testtypes: Per-type setup and result validation
  - storage, db: SQL access, schema and drivers
  - blobstore: Sample file storage
  - handlers, router, middleware: HTTP layer
  - auth: Admin credentials and bearer tokens
  - apperr: Error kinds and their HTTP status
  - cliparse: Configuration parsing
*/
package main
