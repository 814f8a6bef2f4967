// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package storage holds the row-level queries shared by the experiment
repository and the result aggregator.

Every function takes a Querier so it runs equally on *sql.DB and inside a
*sql.Tx. Lookups by key translate sql.ErrNoRows into the matching apperr
kind (EXPERIMENT_NOT_FOUND, TEST_NOT_FOUND).

Setups and results are stored as JSON text and decoded by the testtypes
package at this boundary:

	view, err := storage.BuildView(ctx, tx, exp)
*/
package storage
