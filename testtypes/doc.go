// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package testtypes validates and shapes the four test-type payloads.

# Results

Validate checks an inbound result against the schema of its test type:

	result, err := testtypes.Validate(models.TestTypeMUSHRA, payload)

Unknown fields, missing required fields and out-of-range scores fail with
INCORRECT_INPUT_DATA. The returned value is one of models.ABResult,
models.ABXResult, models.MUSHRAResult or models.APEResult.

# Setups

DecodeExperimentConfig and DecodeTestDefinition decode an uploaded experiment
configuration; every test key other than uid, testNumber, type and results
becomes the typed setup. Shape rebuilds the public view of a stored test.
A stored setup missing a required key is a data-integrity fault
(SETUP_CORRUPTED), not a user error.

# Dispatch

Each test type has one entry in the variants table listing its required
setup and result keys and its decoders. Semantic checks switch over the
concrete setup and result types.
*/
package testtypes
