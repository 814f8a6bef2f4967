// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SamplesDir: root directory of the sample blob store (default: ./samples)
  - JWTSecret: secret for admin token signing (required)
  - TokenTTL: admin token lifetime (default: 24h)
  - AdminUsername, AdminPassword: optional admin created at startup

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-samples     Samples directory
	-jwt-secret  Token signing secret

# Environment Variables

A .env file in the working directory is loaded first when present.
Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	SAMPLES_DIR   → -samples
	JWT_SECRET    → -jwt-secret
	TOKEN_TTL
	ADMIN_USERNAME
	ADMIN_PASSWORD

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - ADMIN_USERNAME and ADMIN_PASSWORD must be set together
*/
package cliparse
