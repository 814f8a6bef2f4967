// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ExperimentNotFound("exp1"), http.StatusNotFound},
		{ExperimentNotConfigured("exp1"), http.StatusNotFound},
		{TestNotFound("t1"), http.StatusNotFound},
		{SampleNotFound("a.mp3"), http.StatusNotFound},
		{NoTestsFoundForExperiment("exp1"), http.StatusNotFound},
		{ExperimentAlreadyExists("exp1"), http.StatusConflict},
		{ExperimentAlreadyConfigured("exp1"), http.StatusConflict},
		{NoResultsData(), http.StatusBadRequest},
		{NoMatchingTest("9"), http.StatusBadRequest},
		{IncorrectInputData("testNumber 1"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{SetupCorrupted("t1", errors.New("missing samples")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Kind.HTTPStatus())
		})
	}
	assert.Equal(t, http.StatusInternalServerError, KindUnknown.HTTPStatus())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Experiment exp1 not found!", ExperimentNotFound("exp1").Error())
	assert.Equal(t, "No matching test found for test number 9!", NoMatchingTest("9").Error())
	assert.Equal(t, "Incorrect input data: bad score", IncorrectInputData("bad score").Error())
}

func TestKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("configure: %w", ExperimentNotFound("exp1"))

	assert.Equal(t, KindExperimentNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindExperimentNotFound))
	assert.True(t, errors.Is(err, ExperimentNotFound("other")))
	assert.False(t, errors.Is(err, TestNotFound("t1")))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := SetupCorrupted("t1", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "t1")
}
