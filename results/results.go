// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/db"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/storage"
	"github.com/pqtoolkit/pq-toolkit-api/testtypes"
)

// Batch is the outcome of one submission: its token and stored results.
type Batch struct {
	Token   string
	Results []models.Result
}

// Aggregator ingests result batches and reads them back.
type Aggregator struct {
	db       *sql.DB
	now      func() time.Time
	newToken func() string
}

func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db, now: time.Now, newToken: uuid.NewString}
}

// Submit validates every entry of payload["results"] against the type of
// the test its testNumber names and stores them under one fresh batch
// token. Either the whole batch is stored or nothing is.
func (a *Aggregator) Submit(ctx context.Context, experimentName string, payload []byte) (Batch, error) {
	var batch Batch
	err := db.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		exp, err := storage.FindExperiment(ctx, tx, experimentName)
		if err != nil {
			return err
		}
		tests, err := storage.ListTests(ctx, tx, exp.ID)
		if err != nil {
			return err
		}
		if len(tests) == 0 {
			return apperr.NoTestsFoundForExperiment(experimentName)
		}

		entries, err := decodeEntries(payload)
		if err != nil {
			return err
		}

		byNumber := make(map[int]storage.TestRow, len(tests))
		for _, t := range tests {
			byNumber[t.Number] = t
		}

		token := a.newToken()
		submittedAt := a.now().UnixNano()

		for i, raw := range entries {
			number, ok := testNumberOf(raw)
			if !ok {
				return apperr.NoMatchingTest(rawTestNumber(raw))
			}
			test, ok := byNumber[number]
			if !ok {
				return apperr.NoMatchingTest(strconv.Itoa(number))
			}

			result, err := testtypes.Validate(test.Type, raw)
			if err != nil {
				return err
			}
			encoded, err := testtypes.EncodeResult(result)
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}

			id, err := auth.GenerateID(16)
			if err != nil {
				return err
			}
			row := storage.ResultRow{
				ID:            id,
				TestID:        test.ID,
				Payload:       encoded,
				ExperimentUse: token,
			}
			if err := storage.InsertResult(ctx, tx, row, submittedAt, i); err != nil {
				return err
			}
		}

		rows, err := storage.ListResults(ctx, tx, storage.ResultFilter{ExperimentID: exp.ID, Batch: token})
		if err != nil {
			return err
		}
		stored, err := storage.DecodeResults(rows)
		if err != nil {
			return err
		}
		batch = Batch{Token: token, Results: stored}
		return nil
	})
	if err != nil {
		return Batch{}, err
	}
	return batch, nil
}

// GetResults returns the results of an experiment, limited to one batch
// when batch is not empty.
func (a *Aggregator) GetResults(ctx context.Context, experimentName, batch string) ([]models.Result, error) {
	var results []models.Result
	err := db.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		exp, err := storage.FindExperiment(ctx, tx, experimentName)
		if err != nil {
			return err
		}
		rows, err := storage.ListResults(ctx, tx, storage.ResultFilter{ExperimentID: exp.ID, Batch: batch})
		if err != nil {
			return err
		}
		results, err = storage.DecodeResults(rows)
		return err
	})
	return results, err
}

// ResultsForTest returns every result recorded for one test.
func (a *Aggregator) ResultsForTest(ctx context.Context, testID string) ([]models.Result, error) {
	var results []models.Result
	err := db.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		if _, err := storage.FindTest(ctx, tx, testID); err != nil {
			return err
		}
		rows, err := storage.ListResults(ctx, tx, storage.ResultFilter{TestID: testID})
		if err != nil {
			return err
		}
		results, err = storage.DecodeResults(rows)
		return err
	})
	return results, err
}

// decodeEntries extracts the results list. A missing, null or empty list
// fails with NO_RESULTS_DATA.
func decodeEntries(payload []byte) ([]json.RawMessage, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, apperr.IncorrectInputData(fmt.Sprintf("results payload: %v", err))
	}
	raw, ok := body["results"]
	if !ok || string(raw) == "null" {
		return nil, apperr.NoResultsData()
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apperr.IncorrectInputData(fmt.Sprintf("results: %v", err))
	}
	if len(entries) == 0 {
		return nil, apperr.NoResultsData()
	}
	return entries, nil
}

func testNumberOf(raw json.RawMessage) (int, bool) {
	var head struct {
		TestNumber *int `json:"testNumber"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.TestNumber == nil {
		return 0, false
	}
	return *head.TestNumber, true
}

// rawTestNumber renders whatever was sent as testNumber for error messages.
func rawTestNumber(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "None"
	}
	if v, ok := fields["testNumber"]; ok {
		return string(v)
	}
	return "None"
}
