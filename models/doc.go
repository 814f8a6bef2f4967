// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Test Types

Tests come in four shapes, each with its own setup and result struct:

	AB      ABSetup      ABResult
	ABX     ABXSetup     ABXResult
	MUSHRA  MUSHRASetup  MUSHRAResult
	APE     APESetup     APEResult

Setup and Result are closed interfaces over these variants. Callers switch
on the concrete type; the testtypes package owns decoding and validation.

# Domain Types

  - Experiment: a named campaign, configured or not
  - Test: one numbered test of an experiment with its typed setup
  - TestResult: a stored answer tagged with its batch token (experiment_use)
  - Admin: an administrator credential record

# View Types

  - ExperimentView: public experiment with nested tests and results
  - TestView: a test with setup fields flattened next to uid, testNumber,
    type and results

# Request and Response Types

  - ExperimentNameRequest: name
  - RateSampleRequest: rating
  - LoginRequest: username, password
  - ExperimentsList, ResultsList, SampleRatingSummary, SuccessResponse,
    TokenResponse, ErrorResponse
*/
package models
