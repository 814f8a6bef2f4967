// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package testtypes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

// variant holds everything the validator knows about one test type.
// Adding a test type means adding an entry to variants.
type variant struct {
	setupKeys    []string // required in a stored setup
	uploadKeys   []string // required in an uploaded test
	resultKeys   []string
	decodeSetup  func(raw []byte, strict bool) (models.Setup, error)
	decodeResult func(raw []byte) (models.Result, error)
}

var variants = map[models.TestType]variant{
	models.TestTypeAB: {
		setupKeys:    []string{"samples", "questions"},
		uploadKeys:   []string{"samples"},
		resultKeys:   []string{"testNumber"},
		decodeSetup:  decodeSetupAs[models.ABSetup],
		decodeResult: decodeResultAs[models.ABResult],
	},
	models.TestTypeABX: {
		setupKeys:    []string{"samples", "questions"},
		uploadKeys:   []string{"samples"},
		resultKeys:   []string{"testNumber", "xSampleId", "xSelected"},
		decodeSetup:  decodeSetupAs[models.ABXSetup],
		decodeResult: decodeResultAs[models.ABXResult],
	},
	models.TestTypeMUSHRA: {
		setupKeys:    []string{"reference", "anchors", "samples", "question"},
		uploadKeys:   []string{"reference", "anchors", "samples", "question"},
		resultKeys:   []string{"testNumber", "referenceScore", "anchorsScores", "samplesScores"},
		decodeSetup:  decodeSetupAs[models.MUSHRASetup],
		decodeResult: decodeResultAs[models.MUSHRAResult],
	},
	models.TestTypeAPE: {
		setupKeys:    []string{"axis", "samples"},
		uploadKeys:   []string{"axis", "samples"},
		resultKeys:   []string{"testNumber", "axisResults"},
		decodeSetup:  decodeSetupAs[models.APESetup],
		decodeResult: decodeResultAs[models.APEResult],
	},
}

// keys consumed by the test envelope and never stored in the setup
var envelopeKeys = []string{"uid", "testNumber", "type", "results"}

func lookup(t models.TestType) (variant, error) {
	v, ok := variants[t]
	if !ok {
		return variant{}, fmt.Errorf("unknown test type %q", t)
	}
	return v, nil
}

// Validate checks that payload is a well-formed result for a test of type t
// and returns it decoded. Missing required fields, unknown fields and
// out-of-range values fail with INCORRECT_INPUT_DATA.
func Validate(t models.TestType, payload []byte) (models.Result, error) {
	v, err := lookup(t)
	if err != nil {
		return nil, apperr.IncorrectInputData(err.Error())
	}
	if err := requireKeys(payload, v.resultKeys); err != nil {
		return nil, apperr.IncorrectInputData(fmt.Sprintf("%s result: %v", t, err))
	}
	result, err := v.decodeResult(payload)
	if err != nil {
		return nil, apperr.IncorrectInputData(fmt.Sprintf("%s result: %v", t, err))
	}
	if err := checkResult(result); err != nil {
		return nil, apperr.IncorrectInputData(fmt.Sprintf("%s result %d: %v", t, result.Number(), err))
	}
	return result, nil
}

// DecodeStoredResult decodes a result row written by this package.
func DecodeStoredResult(t models.TestType, raw []byte) (models.Result, error) {
	v, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return v.decodeResult(raw)
}

// Shape rebuilds the public view of a stored test. A stored setup missing
// one of its type's required keys is reported as SETUP_CORRUPTED.
func Shape(test models.Test, rawSetup []byte, results []models.Result) (models.TestView, error) {
	v, err := lookup(test.Type)
	if err != nil {
		return models.TestView{}, apperr.SetupCorrupted(test.ID, err)
	}
	if err := requireKeys(rawSetup, v.setupKeys); err != nil {
		return models.TestView{}, apperr.SetupCorrupted(test.ID, err)
	}
	setup, err := v.decodeSetup(rawSetup, false)
	if err != nil {
		return models.TestView{}, apperr.SetupCorrupted(test.ID, err)
	}
	return models.TestView{
		UID:        test.ID,
		TestNumber: test.Number,
		Type:       test.Type,
		Setup:      setup,
		Results:    results,
	}, nil
}

// EncodeSetup serializes a setup for the storage boundary.
func EncodeSetup(s models.Setup) ([]byte, error) {
	return json.Marshal(s)
}

// EncodeResult serializes a result for the storage boundary.
func EncodeResult(r models.Result) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeTestDefinition decodes one uploaded test. Every key other than
// uid, testNumber, type and results belongs to the type-specific setup.
func DecodeTestDefinition(raw []byte) (models.TestDefinition, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test: %v", err))
	}

	var def models.TestDefinition
	if err := unmarshalField(fields, "testNumber", &def.Number); err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test: %v", err))
	}
	if err := unmarshalField(fields, "type", &def.Type); err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test %d: %v", def.Number, err))
	}
	v, err := lookup(def.Type)
	if err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test %d: %v", def.Number, err))
	}

	for _, k := range envelopeKeys {
		delete(fields, k)
	}
	rawSetup, err := json.Marshal(fields)
	if err != nil {
		return models.TestDefinition{}, fmt.Errorf("re-encode setup: %w", err)
	}
	if err := requireKeys(rawSetup, v.uploadKeys); err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test %d: %v", def.Number, err))
	}
	def.Setup, err = v.decodeSetup(rawSetup, true)
	if err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test %d: %v", def.Number, err))
	}
	if err := checkSetup(def.Setup); err != nil {
		return models.TestDefinition{}, apperr.IncorrectInputData(fmt.Sprintf("test %d: %v", def.Number, err))
	}
	def.Setup = normalizeSetup(def.Setup)
	return def, nil
}

// DecodeExperimentConfig decodes a full experiment configuration upload.
func DecodeExperimentConfig(data []byte) (models.ExperimentConfig, error) {
	var upload struct {
		UID         json.RawMessage   `json:"uid"`
		Name        string            `json:"name"`
		Description string            `json:"description"`
		EndText     string            `json:"endText"`
		Tests       []json.RawMessage `json:"tests"`
	}
	if err := requireKeys(data, []string{"name", "tests"}); err != nil {
		return models.ExperimentConfig{}, apperr.IncorrectInputData(fmt.Sprintf("experiment: %v", err))
	}
	if err := decodeStrict(data, &upload); err != nil {
		return models.ExperimentConfig{}, apperr.IncorrectInputData(fmt.Sprintf("experiment: %v", err))
	}
	if upload.Name == "" {
		return models.ExperimentConfig{}, apperr.IncorrectInputData("experiment: name must not be empty")
	}

	cfg := models.ExperimentConfig{
		FullName:    upload.Name,
		Description: upload.Description,
		EndText:     upload.EndText,
		Tests:       make([]models.TestDefinition, 0, len(upload.Tests)),
	}
	seen := make(map[int]bool, len(upload.Tests))
	for _, raw := range upload.Tests {
		def, err := DecodeTestDefinition(raw)
		if err != nil {
			return models.ExperimentConfig{}, err
		}
		if seen[def.Number] {
			return models.ExperimentConfig{}, apperr.IncorrectInputData(fmt.Sprintf("duplicate test number %d", def.Number))
		}
		seen[def.Number] = true
		cfg.Tests = append(cfg.Tests, def)
	}
	return cfg, nil
}

func decodeSetupAs[T models.Setup](raw []byte, strict bool) (models.Setup, error) {
	var s T
	var err error
	if strict {
		err = decodeStrict(raw, &s)
	} else {
		err = json.Unmarshal(raw, &s)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeResultAs[T models.Result](raw []byte) (models.Result, error) {
	var r T
	if err := decodeStrict(raw, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// requireKeys fails when raw is not an object or lacks one of keys.
// A key set to null counts as missing.
func requireKeys(raw []byte, keys []string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("expected a JSON object")
	}
	var missing []string
	for _, k := range keys {
		if v, ok := fields[k]; !ok || string(v) == "null" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required field(s) %v", missing)
	}
	return nil
}

func unmarshalField(fields map[string]json.RawMessage, key string, v any) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("missing required field %s", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}
