// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package testtypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		testType models.TestType
		payload  string
		wantErr  bool
	}{
		{"ab chosen", models.TestTypeAB, `{"testNumber":1,"chosen":"A"}`, false},
		{"ab selections", models.TestTypeAB, `{"testNumber":1,"selections":[{"questionId":"q1","sampleId":"s1"}]}`, false},
		{"ab nothing chosen", models.TestTypeAB, `{"testNumber":1}`, true},
		{"ab extra field", models.TestTypeAB, `{"testNumber":1,"chosen":"A","extra":true}`, true},
		{"ab missing number", models.TestTypeAB, `{"chosen":"A"}`, true},
		{"ab wrong number type", models.TestTypeAB, `{"testNumber":"one","chosen":"A"}`, true},
		{"abx valid", models.TestTypeABX, `{"testNumber":2,"xSampleId":"s1","xSelected":"s1"}`, false},
		{"abx missing selected", models.TestTypeABX, `{"testNumber":2,"xSampleId":"s1"}`, true},
		{"mushra valid", models.TestTypeMUSHRA, `{"testNumber":3,"referenceScore":100,"anchorsScores":[{"sampleId":"a1","score":10}],"samplesScores":[{"sampleId":"s1","score":55.5}]}`, false},
		{"mushra score out of range", models.TestTypeMUSHRA, `{"testNumber":3,"referenceScore":100,"anchorsScores":[],"samplesScores":[{"sampleId":"s1","score":101}]}`, true},
		{"mushra missing anchors", models.TestTypeMUSHRA, `{"testNumber":3,"referenceScore":100,"samplesScores":[]}`, true},
		{"ape valid", models.TestTypeAPE, `{"testNumber":4,"axisResults":[{"axisId":"x","sampleRatings":[{"sampleId":"s1","rating":0.4}]}]}`, false},
		{"ape null axis results", models.TestTypeAPE, `{"testNumber":4,"axisResults":null}`, true},
		{"ab payload against mushra", models.TestTypeMUSHRA, `{"testNumber":1,"chosen":"A"}`, true},
		{"unknown type", models.TestType("ACR"), `{"testNumber":1}`, true},
		{"not an object", models.TestTypeAB, `[1,2]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(tt.testType, []byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindIncorrectInputData), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.testType, result.TestType())
		})
	}
}

func TestValidate_ReturnsTypedResult(t *testing.T) {
	result, err := Validate(models.TestTypeAB, []byte(`{"testNumber":1,"chosen":"A","feedback":"easy"}`))
	require.NoError(t, err)

	ab, ok := result.(models.ABResult)
	require.True(t, ok, "expected ABResult, got %T", result)
	assert.Equal(t, 1, ab.TestNumber)
	assert.Equal(t, "A", ab.Chosen)
	assert.Equal(t, "easy", ab.Feedback)

	encoded, err := EncodeResult(ab)
	require.NoError(t, err)
	decoded, err := DecodeStoredResult(models.TestTypeAB, encoded)
	require.NoError(t, err)
	assert.Equal(t, ab, decoded)
}

func TestDecodeExperimentConfig(t *testing.T) {
	data := `{
		"uid": "old-id",
		"name": "Listening study",
		"description": "Compare codecs",
		"endText": "Thanks!",
		"tests": [
			{"testNumber": 1, "type": "AB", "uid": "t1",
			 "samples": [{"sampleId": "s1", "assetPath": "a.mp3"}, {"sampleId": "s2", "assetPath": "b.mp3"}]},
			{"testNumber": 2, "type": "MUSHRA", "results": [],
			 "reference": {"sampleId": "ref", "assetPath": "ref.mp3"},
			 "anchors": [], "samples": [{"sampleId": "s1", "assetPath": "a.mp3"}],
			 "question": "Rate the quality"}
		]
	}`

	cfg, err := DecodeExperimentConfig([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "Listening study", cfg.FullName)
	assert.Equal(t, "Compare codecs", cfg.Description)
	assert.Equal(t, "Thanks!", cfg.EndText)
	require.Len(t, cfg.Tests, 2)

	ab, ok := cfg.Tests[0].Setup.(models.ABSetup)
	require.True(t, ok)
	assert.Len(t, ab.Samples, 2)
	assert.NotNil(t, ab.Questions, "questions should be normalized to an empty list")

	mushra, ok := cfg.Tests[1].Setup.(models.MUSHRASetup)
	require.True(t, ok)
	assert.Equal(t, "ref", mushra.Reference.SampleID)
	assert.Equal(t, "Rate the quality", mushra.Question)
}

func TestDecodeExperimentConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing tests", `{"name":"x"}`},
		{"empty name", `{"name":"","tests":[]}`},
		{"unknown experiment field", `{"name":"x","tests":[],"colour":"red"}`},
		{"unknown test type", `{"name":"x","tests":[{"testNumber":1,"type":"ACR","samples":[]}]}`},
		{"missing test number", `{"name":"x","tests":[{"type":"AB","samples":[]}]}`},
		{"unknown setup field", `{"name":"x","tests":[{"testNumber":1,"type":"APE","axis":[{"questionId":"q","text":"t"}],"samples":[{"sampleId":"s","assetPath":"s.mp3"}],"bogus":1}]}`},
		{"too few ab samples", `{"name":"x","tests":[{"testNumber":1,"type":"AB","samples":[{"sampleId":"s","assetPath":"s.mp3"}]}]}`},
		{"abx x sample not in samples", `{"name":"x","tests":[{"testNumber":1,"type":"ABX","xSampleId":"zz","samples":[{"sampleId":"a","assetPath":"a.mp3"},{"sampleId":"b","assetPath":"b.mp3"}]}]}`},
		{"duplicate test number", `{"name":"x","tests":[
			{"testNumber":1,"type":"AB","samples":[{"sampleId":"a","assetPath":"a.mp3"},{"sampleId":"b","assetPath":"b.mp3"}]},
			{"testNumber":1,"type":"AB","samples":[{"sampleId":"a","assetPath":"a.mp3"},{"sampleId":"b","assetPath":"b.mp3"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExperimentConfig([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindIncorrectInputData), "got %v", err)
		})
	}
}

func TestShape(t *testing.T) {
	setup := models.APESetup{
		Axis:    []models.Question{{QuestionID: "q1", Text: "Brightness"}},
		Samples: []models.Sample{{SampleID: "s1", AssetPath: "s1.mp3"}},
	}
	raw, err := EncodeSetup(setup)
	require.NoError(t, err)

	test := models.Test{ID: "t1", Number: 4, Type: models.TestTypeAPE}
	view, err := Shape(test, raw, nil)
	require.NoError(t, err)
	assert.Equal(t, setup, view.Setup)

	encoded, err := json.Marshal(view)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(encoded, &fields))
	assert.Equal(t, "t1", fields["uid"])
	assert.Equal(t, float64(4), fields["testNumber"])
	assert.Equal(t, "APE", fields["type"])
	assert.Contains(t, fields, "axis")
	assert.Contains(t, fields, "samples")
	assert.Equal(t, []any{}, fields["results"])
}

func TestShape_CorruptedSetup(t *testing.T) {
	test := models.Test{ID: "t9", Number: 1, Type: models.TestTypeMUSHRA}

	_, err := Shape(test, []byte(`{"reference":{"sampleId":"r","assetPath":"r.mp3"},"samples":[],"question":"q"}`), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindSetupCorrupted))
	assert.Equal(t, apperr.ClassInternal, apperr.KindOf(err).Class())
}
