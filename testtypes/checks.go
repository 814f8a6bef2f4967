// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package testtypes

import (
	"errors"
	"fmt"

	"github.com/pqtoolkit/pq-toolkit-api/models"
)

// MUSHRA scores live on a 0-100 scale
const (
	minScore = 0
	maxScore = 100
)

func checkSetup(s models.Setup) error {
	switch s := s.(type) {
	case models.ABSetup:
		if err := checkSamples(s.Samples, 2); err != nil {
			return err
		}
		return checkQuestions("questions", s.Questions)
	case models.ABXSetup:
		if err := checkSamples(s.Samples, 2); err != nil {
			return err
		}
		if s.XSampleID != nil && !hasSample(s.Samples, *s.XSampleID) {
			return fmt.Errorf("xSampleId %q is not one of the samples", *s.XSampleID)
		}
		return checkQuestions("questions", s.Questions)
	case models.MUSHRASetup:
		if s.Reference.SampleID == "" || s.Reference.AssetPath == "" {
			return errors.New("reference needs sampleId and assetPath")
		}
		if err := checkSamples(s.Samples, 1); err != nil {
			return err
		}
		return checkSamples(s.Anchors, 0)
	case models.APESetup:
		if len(s.Axis) == 0 {
			return errors.New("axis must not be empty")
		}
		if err := checkQuestions("axis", s.Axis); err != nil {
			return err
		}
		return checkSamples(s.Samples, 1)
	default:
		return fmt.Errorf("unsupported setup %T", s)
	}
}

func checkResult(r models.Result) error {
	switch r := r.(type) {
	case models.ABResult:
		if r.Chosen == "" && len(r.Selections) == 0 {
			return errors.New("either chosen or selections is required")
		}
		return checkSelections(r.Selections)
	case models.ABXResult:
		if r.XSampleID == "" || r.XSelected == "" {
			return errors.New("xSampleId and xSelected must not be empty")
		}
		return checkSelections(r.Selections)
	case models.MUSHRAResult:
		if r.ReferenceScore < minScore || r.ReferenceScore > maxScore {
			return fmt.Errorf("referenceScore %v out of range", r.ReferenceScore)
		}
		if err := checkScores("anchorsScores", r.AnchorsScores); err != nil {
			return err
		}
		return checkScores("samplesScores", r.SamplesScores)
	case models.APEResult:
		for _, axis := range r.AxisResults {
			if axis.AxisID == "" {
				return errors.New("axisResults entry without axisId")
			}
			for _, rating := range axis.SampleRatings {
				if rating.SampleID == "" {
					return fmt.Errorf("axis %s: rating without sampleId", axis.AxisID)
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported result %T", r)
	}
}

func checkSamples(samples []models.Sample, min int) error {
	if len(samples) < min {
		return fmt.Errorf("at least %d sample(s) required, got %d", min, len(samples))
	}
	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		if s.SampleID == "" || s.AssetPath == "" {
			return errors.New("sample needs sampleId and assetPath")
		}
		if seen[s.SampleID] {
			return fmt.Errorf("duplicate sampleId %q", s.SampleID)
		}
		seen[s.SampleID] = true
	}
	return nil
}

func checkQuestions(field string, questions []models.Question) error {
	for _, q := range questions {
		if q.QuestionID == "" {
			return fmt.Errorf("%s entry without questionId", field)
		}
	}
	return nil
}

func checkSelections(selections []models.Selection) error {
	for _, s := range selections {
		if s.QuestionID == "" || s.SampleID == "" {
			return errors.New("selection needs questionId and sampleId")
		}
	}
	return nil
}

func checkScores(field string, scores []models.SampleScore) error {
	for _, s := range scores {
		if s.SampleID == "" {
			return fmt.Errorf("%s entry without sampleId", field)
		}
		if s.Score < minScore || s.Score > maxScore {
			return fmt.Errorf("%s: score %v for %s out of range", field, s.Score, s.SampleID)
		}
	}
	return nil
}

func hasSample(samples []models.Sample, id string) bool {
	for _, s := range samples {
		if s.SampleID == id {
			return true
		}
	}
	return false
}

// normalizeSetup replaces nil lists with empty ones so a stored setup
// always carries every key of its type.
func normalizeSetup(s models.Setup) models.Setup {
	switch s := s.(type) {
	case models.ABSetup:
		s.Questions = nonNil(s.Questions)
		return s
	case models.ABXSetup:
		s.Questions = nonNil(s.Questions)
		return s
	case models.MUSHRASetup:
		s.Anchors = nonNil(s.Anchors)
		s.Samples = nonNil(s.Samples)
		return s
	case models.APESetup:
		s.Samples = nonNil(s.Samples)
		return s
	}
	return s
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
