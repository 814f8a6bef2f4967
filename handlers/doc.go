// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pq-toolkit API.

# Handler Types

Each handler is a thin struct over one core package:

  - ExperimentHandler: experiment lifecycle (create, configure, read, delete)
  - ResultsHandler: result batch submission and retrieval
  - SampleHandler: audio samples, ratings and experiment samples
  - TestHandler: single test lookup and its results
  - AuthHandler: admin login

Handlers are created via constructor functions:

	experimentHandler := handlers.NewExperimentHandler(db, cfg)
	sampleHandler := handlers.NewSampleHandler(db, store)

# Experiment Lifecycle

An experiment is created by name, then configured by uploading its full
definition, either as a multipart "file" field or as the raw JSON body:

	POST /api/v1/experiments        {"name": "exp1"}
	POST /api/v1/experiments/exp1   {"name": "...", "tests": [...]}

Unconfigured experiments answer 404 on GET.

# Results

Listeners submit all answers of one session as a batch:

	POST /api/v1/experiments/exp1/results
	{"results": [{"testNumber": 1, "chosen": "A"}]}

The response carries the stored results and the batch token
(experimentUse) that GET .../results/{token} filters on.

# Errors

Every handler reports failures through middleware.WriteError, so domain
errors keep their kind and status and nothing else leaks past a 500.
*/
package handlers
