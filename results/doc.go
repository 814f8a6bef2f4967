// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package results ingests submitted test results and reads them back.

# Submission

A submission is a JSON object with a results list; each entry names the
test it answers by testNumber:

	{"results": [{"testNumber": 1, "chosen": "A"}]}

	agg := results.NewAggregator(db)
	batch, err := agg.Submit(ctx, "exp1", payload)

Every entry is validated against its test's type before it is stored. All
entries share one fresh batch token (experiment_use). The batch is written
in a single transaction, so an unknown testNumber or an invalid entry
leaves no rows behind.

Errors:

  - EXPERIMENT_NOT_FOUND: no experiment with that name
  - NO_TESTS_FOUND_FOR_EXPERIMENT: the experiment has no tests
  - NO_RESULTS_DATA: results missing, null or empty
  - NO_MATCHING_TEST: an entry names a test number the experiment lacks
  - INCORRECT_INPUT_DATA: an entry does not match its test's schema

# Reads

	all, err := agg.GetResults(ctx, "exp1", "")        // every batch
	one, err := agg.GetResults(ctx, "exp1", batch.Token)
	byTest, err := agg.ResultsForTest(ctx, testID)
*/
package results
