// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error code.
type Kind string

const (
	KindUnknown Kind = "UNKNOWN"

	// Not-found class
	KindExperimentNotFound        Kind = "EXPERIMENT_NOT_FOUND"
	KindExperimentNotConfigured   Kind = "EXPERIMENT_NOT_CONFIGURED"
	KindTestNotFound              Kind = "TEST_NOT_FOUND"
	KindSampleNotFound            Kind = "SAMPLE_NOT_FOUND"
	KindNoTestsFoundForExperiment Kind = "NO_TESTS_FOUND_FOR_EXPERIMENT"

	// Conflict class
	KindExperimentAlreadyExists     Kind = "EXPERIMENT_ALREADY_EXISTS"
	KindExperimentAlreadyConfigured Kind = "EXPERIMENT_ALREADY_CONFIGURED"

	// Bad-input class
	KindNoResultsData      Kind = "NO_RESULTS_DATA"
	KindNoMatchingTest     Kind = "NO_MATCHING_TEST"
	KindIncorrectInputData Kind = "INCORRECT_INPUT_DATA"

	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindSetupCorrupted Kind = "SETUP_CORRUPTED"
)

// Class groups kinds by how the caller should react.
type Class int

const (
	ClassInternal Class = iota
	ClassNotFound
	ClassConflict
	ClassBadInput
	ClassUnauthorized
)

// Class returns the class of the kind.
func (k Kind) Class() Class {
	switch k {
	case KindExperimentNotFound, KindExperimentNotConfigured, KindTestNotFound,
		KindSampleNotFound, KindNoTestsFoundForExperiment:
		return ClassNotFound
	case KindExperimentAlreadyExists, KindExperimentAlreadyConfigured:
		return ClassConflict
	case KindNoResultsData, KindNoMatchingTest, KindIncorrectInputData:
		return ClassBadInput
	case KindUnauthorized:
		return ClassUnauthorized
	default:
		return ClassInternal
	}
}

// HTTPStatus maps the kind to a transport status code.
func (k Kind) HTTPStatus() int {
	switch k.Class() {
	case ClassNotFound:
		return http.StatusNotFound
	case ClassConflict:
		return http.StatusConflict
	case ClassBadInput:
		return http.StatusBadRequest
	case ClassUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error returned by the core packages.
type Error struct {
	Kind    Kind   // Machine-readable error code
	Message string // Human-readable message
	Detail  string // Optional detail, e.g. a validation failure
	Cause   error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether any error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func ExperimentNotFound(name string) *Error {
	return New(KindExperimentNotFound, fmt.Sprintf("Experiment %s not found!", name))
}

func ExperimentAlreadyExists(name string) *Error {
	return New(KindExperimentAlreadyExists, fmt.Sprintf("Experiment %s already exists!", name))
}

func ExperimentNotConfigured(name string) *Error {
	return New(KindExperimentNotConfigured, fmt.Sprintf("Experiment %s not configured!", name))
}

func ExperimentAlreadyConfigured(name string) *Error {
	return New(KindExperimentAlreadyConfigured, fmt.Sprintf("Experiment %s already configured!", name))
}

func NoTestsFoundForExperiment(name string) *Error {
	return New(KindNoTestsFoundForExperiment, fmt.Sprintf("Experiment %s has no tests!", name))
}

func TestNotFound(id string) *Error {
	return New(KindTestNotFound, fmt.Sprintf("Test %s does not exist", id))
}

func NoResultsData() *Error {
	return New(KindNoResultsData, "No results data provided!")
}

func NoMatchingTest(testNumber string) *Error {
	return New(KindNoMatchingTest, fmt.Sprintf("No matching test found for test number %s!", testNumber))
}

// IncorrectInputData reports a payload that failed schema validation.
// detail names the offending test number or field.
func IncorrectInputData(detail string) *Error {
	return &Error{Kind: KindIncorrectInputData, Message: "Incorrect input data", Detail: detail}
}

func SampleNotFound(filename string) *Error {
	return New(KindSampleNotFound, fmt.Sprintf("Sample %s does not exist", filename))
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// SetupCorrupted reports a stored test setup that no longer matches its type.
func SetupCorrupted(testID string, cause error) *Error {
	return Wrap(KindSetupCorrupted, fmt.Sprintf("Stored setup of test %s is corrupted", testID), cause)
}
