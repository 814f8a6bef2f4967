// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is written in the common subset of SQLite and PostgreSQL.
// Dependent rows are removed explicitly by the repositories, so foreign
// keys carry no ON DELETE CASCADE.
const schema = `
-- Experiments
CREATE TABLE IF NOT EXISTS experiments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    end_text TEXT NOT NULL DEFAULT '',
    configured BOOLEAN NOT NULL DEFAULT FALSE
);

-- Tests
CREATE TABLE IF NOT EXISTS tests (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL REFERENCES experiments(id),
    number INTEGER NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('AB', 'ABX', 'MUSHRA', 'APE')),
    setup TEXT NOT NULL,
    UNIQUE (experiment_id, number)
);

CREATE INDEX IF NOT EXISTS idx_tests_experiment_id ON tests(experiment_id);

-- Experiment Test Results
CREATE TABLE IF NOT EXISTS experiment_test_results (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL REFERENCES tests(id),
    test_result TEXT NOT NULL,
    experiment_use TEXT NOT NULL,
    submitted_at BIGINT NOT NULL,
    batch_index INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_results_test_id ON experiment_test_results(test_id);
CREATE INDEX IF NOT EXISTS idx_results_experiment_use ON experiment_test_results(experiment_use);

-- Sample Ratings
CREATE TABLE IF NOT EXISTS sample_ratings (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    rating INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sample_ratings_filename ON sample_ratings(filename);

-- Admins
CREATE TABLE IF NOT EXISTS admins (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL
);
`
