// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TestType identifies one of the supported perceptual test shapes.
type TestType string

// Test type constants
const (
	TestTypeAB     TestType = "AB"
	TestTypeABX    TestType = "ABX"
	TestTypeMUSHRA TestType = "MUSHRA"
	TestTypeAPE    TestType = "APE"
)

// TestTypes lists every supported test type.
var TestTypes = []TestType{TestTypeAB, TestTypeABX, TestTypeMUSHRA, TestTypeAPE}

// Valid reports whether t is one of the supported test types.
func (t TestType) Valid() bool {
	switch t {
	case TestTypeAB, TestTypeABX, TestTypeMUSHRA, TestTypeAPE:
		return true
	}
	return false
}

// Setup building blocks

type Sample struct {
	SampleID  string `json:"sampleId"`
	AssetPath string `json:"assetPath"`
}

type Question struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
}

// Setup is the type-specific part of a test definition.
// Implemented by ABSetup, ABXSetup, MUSHRASetup and APESetup.
type Setup interface {
	TestType() TestType
	isSetup()
}

type ABSetup struct {
	Samples   []Sample   `json:"samples"`
	Questions []Question `json:"questions"`
}

type ABXSetup struct {
	XSampleID *string    `json:"xSampleId,omitempty"`
	Samples   []Sample   `json:"samples"`
	Questions []Question `json:"questions"`
}

type MUSHRASetup struct {
	Reference Sample   `json:"reference"`
	Anchors   []Sample `json:"anchors"`
	Samples   []Sample `json:"samples"`
	Question  string   `json:"question"`
}

type APESetup struct {
	Axis    []Question `json:"axis"`
	Samples []Sample   `json:"samples"`
}

func (ABSetup) TestType() TestType     { return TestTypeAB }
func (ABXSetup) TestType() TestType    { return TestTypeABX }
func (MUSHRASetup) TestType() TestType { return TestTypeMUSHRA }
func (APESetup) TestType() TestType    { return TestTypeAPE }

func (ABSetup) isSetup()     {}
func (ABXSetup) isSetup()    {}
func (MUSHRASetup) isSetup() {}
func (APESetup) isSetup()    {}

// Result building blocks

type Selection struct {
	QuestionID string `json:"questionId"`
	SampleID   string `json:"sampleId"`
}

type SampleScore struct {
	SampleID string  `json:"sampleId"`
	Score    float64 `json:"score"`
}

type AxisSampleRating struct {
	SampleID string  `json:"sampleId"`
	Rating   float64 `json:"rating"`
}

type AxisResult struct {
	AxisID        string             `json:"axisId"`
	SampleRatings []AxisSampleRating `json:"sampleRatings"`
}

// Result is one submitted answer to a test.
// Implemented by ABResult, ABXResult, MUSHRAResult and APEResult.
type Result interface {
	TestType() TestType
	Number() int
}

type ABResult struct {
	TestNumber int         `json:"testNumber"`
	Chosen     string      `json:"chosen,omitempty"`
	Selections []Selection `json:"selections,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
}

type ABXResult struct {
	TestNumber int         `json:"testNumber"`
	XSampleID  string      `json:"xSampleId"`
	XSelected  string      `json:"xSelected"`
	Selections []Selection `json:"selections,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
}

type MUSHRAResult struct {
	TestNumber     int           `json:"testNumber"`
	ReferenceScore float64       `json:"referenceScore"`
	AnchorsScores  []SampleScore `json:"anchorsScores"`
	SamplesScores  []SampleScore `json:"samplesScores"`
	Feedback       string        `json:"feedback,omitempty"`
}

type APEResult struct {
	TestNumber  int          `json:"testNumber"`
	AxisResults []AxisResult `json:"axisResults"`
	Feedback    string       `json:"feedback,omitempty"`
}

func (ABResult) TestType() TestType     { return TestTypeAB }
func (ABXResult) TestType() TestType    { return TestTypeABX }
func (MUSHRAResult) TestType() TestType { return TestTypeMUSHRA }
func (APEResult) TestType() TestType    { return TestTypeAPE }

func (r ABResult) Number() int     { return r.TestNumber }
func (r ABXResult) Number() int    { return r.TestNumber }
func (r MUSHRAResult) Number() int { return r.TestNumber }
func (r APEResult) Number() int    { return r.TestNumber }

// Domain types

type Experiment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	EndText     string `json:"end_text"`
	Configured  bool   `json:"configured"`
}

type Test struct {
	ID           string
	ExperimentID string
	Number       int
	Type         TestType
	Setup        Setup
}

type TestResult struct {
	ID            string
	TestID        string
	Result        Result
	ExperimentUse string
}

type Admin struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"` // Never expose in JSON
}

// Configuration upload types

// TestDefinition is one test of an uploaded experiment configuration.
type TestDefinition struct {
	Number int
	Type   TestType
	Setup  Setup
}

// ExperimentConfig is a decoded full experiment configuration.
type ExperimentConfig struct {
	FullName    string
	Description string
	EndText     string
	Tests       []TestDefinition
}

// View types

// TestView is the public representation of a test: its setup fields
// flattened next to uid, testNumber, type and results.
type TestView struct {
	UID        string
	TestNumber int
	Type       TestType
	Setup      Setup
	Results    []Result
}

func (v TestView) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if v.Setup != nil {
		raw, err := json.Marshal(v.Setup)
		if err != nil {
			return nil, fmt.Errorf("marshal setup: %w", err)
		}
		var setupFields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &setupFields); err != nil {
			return nil, fmt.Errorf("flatten setup: %w", err)
		}
		for k, val := range setupFields {
			fields[k] = val
		}
	}
	results := v.Results
	if results == nil {
		results = []Result{}
	}
	fields["uid"] = v.UID
	fields["testNumber"] = v.TestNumber
	fields["type"] = v.Type
	fields["results"] = results
	return json.Marshal(fields)
}

type ExperimentView struct {
	UID         string     `json:"uid"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EndText     string     `json:"endText"`
	Tests       []TestView `json:"tests"`
}

// Request types

type ExperimentNameRequest struct {
	Name string `json:"name"`
}

type RateSampleRequest struct {
	Rating *int `json:"rating"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type ExperimentsList struct {
	Experiments []string `json:"experiments"`
}

type ResultsList struct {
	Results       []Result `json:"results"`
	ExperimentUse string   `json:"experimentUse,omitempty"`
}

type SampleRatingSummary struct {
	Filename      string  `json:"filename"`
	AverageRating float64 `json:"average_rating"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
