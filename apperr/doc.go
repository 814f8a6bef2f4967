// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package apperr defines the error taxonomy shared by the core packages.

Every error raised by the repository, aggregator and rating service is an
*Error carrying a Kind and a human message:

	err := apperr.ExperimentNotFound("exp1")
	apperr.IsKind(err, apperr.KindExperimentNotFound) // true

# Classes

Kinds fall into classes that the HTTP layer maps to status codes:

  - not found (404): EXPERIMENT_NOT_FOUND, EXPERIMENT_NOT_CONFIGURED,
    TEST_NOT_FOUND, SAMPLE_NOT_FOUND, NO_TESTS_FOUND_FOR_EXPERIMENT
  - conflict (409): EXPERIMENT_ALREADY_EXISTS, EXPERIMENT_ALREADY_CONFIGURED
  - bad input (400): NO_RESULTS_DATA, NO_MATCHING_TEST, INCORRECT_INPUT_DATA
  - unauthorized (401): UNAUTHORIZED
  - internal (500): SETUP_CORRUPTED and anything that is not an *Error

Errors are never retried by the core; they propagate unchanged to the caller.
*/
package apperr
