// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package db handles database connections, schema creation and transactions.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypeSQLite, "file:pq.db?_pragma=foreign_keys(1)")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite is served by modernc.org/sqlite, PostgreSQL by github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - experiments: name (unique), full_name, description, end_text, configured
  - tests: experiment-local number (unique per experiment), type, setup JSON
  - experiment_test_results: test_id, test_result JSON, experiment_use batch token
  - sample_ratings: filename, integer rating
  - admins: username (unique), hashed_password

# Relationships

	experiments 1──* tests
	tests 1──* experiment_test_results

Deletes are not cascaded by the store; the repositories delete results,
then tests, then the experiment inside one transaction.

# Transactions

	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		// ...
		return nil
	})

IsUniqueViolation recognizes the unique constraint signal of both drivers.
*/
package db
