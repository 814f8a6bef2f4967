// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package experiments is the repository for experiments and their tests.

# Lifecycle

An experiment is created by name only and starts unconfigured:

	repo := experiments.NewRepository(db)
	err := repo.Create(ctx, "exp1")

It becomes readable through GetByName only after a full configuration
upload replaces its test set:

	err := repo.Configure(ctx, "exp1", uploadJSON)
	view, err := repo.GetByName(ctx, "exp1")

Configure is all-or-nothing: old tests and results are deleted, the new
tests inserted and configured set in the same transaction.

# Reads

  - List: experiment names
  - GetAll: every experiment keyed by id, with results (showcase dump)
  - GetByName: one configured experiment
  - GetTest: one test by id with its results

# Deletes

Delete removes results, then tests, then the experiment inside one
transaction.
*/
package experiments
