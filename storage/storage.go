// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/testtypes"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TestRow is a tests row with its setup still encoded.
type TestRow struct {
	ID           string
	ExperimentID string
	Number       int
	Type         models.TestType
	Setup        []byte
}

// Test returns the row as a domain test without its setup.
func (r TestRow) Test() models.Test {
	return models.Test{ID: r.ID, ExperimentID: r.ExperimentID, Number: r.Number, Type: r.Type}
}

// ResultRow is an experiment_test_results row joined with its test.
type ResultRow struct {
	ID            string
	TestID        string
	TestType      models.TestType
	TestNumber    int
	Payload       []byte
	ExperimentUse string
}

// ResultFilter narrows ListResults. Empty fields are ignored.
type ResultFilter struct {
	ExperimentID string
	TestID       string
	Batch        string
}

// FindExperiment loads an experiment by its unique name.
func FindExperiment(ctx context.Context, q Querier, name string) (models.Experiment, error) {
	var exp models.Experiment
	err := q.QueryRowContext(ctx, `
		SELECT id, name, full_name, description, end_text, configured
		FROM experiments
		WHERE name = $1
	`, name).Scan(&exp.ID, &exp.Name, &exp.FullName, &exp.Description, &exp.EndText, &exp.Configured)

	if err == sql.ErrNoRows {
		return models.Experiment{}, apperr.ExperimentNotFound(name)
	}
	if err != nil {
		return models.Experiment{}, fmt.Errorf("failed to query experiment: %w", err)
	}
	return exp, nil
}

// ListExperiments returns all experiments ordered by name.
func ListExperiments(ctx context.Context, q Querier) ([]models.Experiment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, full_name, description, end_text, configured
		FROM experiments
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiments: %w", err)
	}
	defer rows.Close()

	experiments := []models.Experiment{}
	for rows.Next() {
		var exp models.Experiment
		if err := rows.Scan(&exp.ID, &exp.Name, &exp.FullName, &exp.Description, &exp.EndText, &exp.Configured); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		experiments = append(experiments, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experiments: %w", err)
	}
	return experiments, nil
}

// ListTests returns the tests of an experiment ordered by number.
func ListTests(ctx context.Context, q Querier, experimentID string) ([]TestRow, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, experiment_id, number, type, setup
		FROM tests
		WHERE experiment_id = $1
		ORDER BY number
	`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	tests := []TestRow{}
	for rows.Next() {
		var t TestRow
		var setup string
		if err := rows.Scan(&t.ID, &t.ExperimentID, &t.Number, &t.Type, &setup); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		t.Setup = []byte(setup)
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tests: %w", err)
	}
	return tests, nil
}

// FindTest loads a single test by id.
func FindTest(ctx context.Context, q Querier, id string) (TestRow, error) {
	var t TestRow
	var setup string
	err := q.QueryRowContext(ctx, `
		SELECT id, experiment_id, number, type, setup
		FROM tests
		WHERE id = $1
	`, id).Scan(&t.ID, &t.ExperimentID, &t.Number, &t.Type, &setup)

	if err == sql.ErrNoRows {
		return TestRow{}, apperr.TestNotFound(id)
	}
	if err != nil {
		return TestRow{}, fmt.Errorf("failed to query test: %w", err)
	}
	t.Setup = []byte(setup)
	return t, nil
}

// InsertTest stores one test of an experiment.
func InsertTest(ctx context.Context, q Querier, row TestRow) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO tests (id, experiment_id, number, type, setup)
		VALUES ($1, $2, $3, $4, $5)
	`, row.ID, row.ExperimentID, row.Number, string(row.Type), string(row.Setup))
	if err != nil {
		return fmt.Errorf("failed to insert test: %w", err)
	}
	return nil
}

// ListResults returns results ordered by test number, then submission order.
func ListResults(ctx context.Context, q Querier, filter ResultFilter) ([]ResultRow, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.ExperimentID != "" {
		add("t.experiment_id = $%d", filter.ExperimentID)
	}
	if filter.TestID != "" {
		add("r.test_id = $%d", filter.TestID)
	}
	if filter.Batch != "" {
		add("r.experiment_use = $%d", filter.Batch)
	}

	query := `
		SELECT r.id, r.test_id, t.type, t.number, r.test_result, r.experiment_use
		FROM experiment_test_results r
		JOIN tests t ON t.id = r.test_id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY t.number, r.submitted_at, r.batch_index"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []ResultRow{}
	for rows.Next() {
		var r ResultRow
		var payload string
		if err := rows.Scan(&r.ID, &r.TestID, &r.TestType, &r.TestNumber, &payload, &r.ExperimentUse); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Payload = []byte(payload)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// InsertResult stores one validated result of a batch.
func InsertResult(ctx context.Context, q Querier, row ResultRow, submittedAt int64, index int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO experiment_test_results (id, test_id, test_result, experiment_use, submitted_at, batch_index)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, row.ID, row.TestID, string(row.Payload), row.ExperimentUse, submittedAt, index)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// DeleteExperimentTests removes every result and test of an experiment,
// results first. Callers run it inside a transaction.
func DeleteExperimentTests(ctx context.Context, q Querier, experimentID string) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM experiment_test_results
		WHERE test_id IN (SELECT id FROM tests WHERE experiment_id = $1)
	`, experimentID)
	if err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}

	_, err = q.ExecContext(ctx, `DELETE FROM tests WHERE experiment_id = $1`, experimentID)
	if err != nil {
		return fmt.Errorf("failed to delete tests: %w", err)
	}
	return nil
}

// DecodeResults decodes stored result rows into their typed results.
func DecodeResults(rows []ResultRow) ([]models.Result, error) {
	results := make([]models.Result, 0, len(rows))
	for _, row := range rows {
		r, err := testtypes.DecodeStoredResult(row.TestType, row.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", row.ID, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// BuildView shapes an experiment with its tests and their results.
func BuildView(ctx context.Context, q Querier, exp models.Experiment) (models.ExperimentView, error) {
	tests, err := ListTests(ctx, q, exp.ID)
	if err != nil {
		return models.ExperimentView{}, err
	}
	resultRows, err := ListResults(ctx, q, ResultFilter{ExperimentID: exp.ID})
	if err != nil {
		return models.ExperimentView{}, err
	}

	byTest := make(map[string][]ResultRow, len(tests))
	for _, r := range resultRows {
		byTest[r.TestID] = append(byTest[r.TestID], r)
	}

	view := models.ExperimentView{
		UID:         exp.ID,
		Name:        exp.FullName,
		Description: exp.Description,
		EndText:     exp.EndText,
		Tests:       make([]models.TestView, 0, len(tests)),
	}
	for _, t := range tests {
		results, err := DecodeResults(byTest[t.ID])
		if err != nil {
			return models.ExperimentView{}, err
		}
		tv, err := testtypes.Shape(t.Test(), t.Setup, results)
		if err != nil {
			return models.ExperimentView{}, err
		}
		view.Tests = append(view.Tests, tv)
	}
	return view, nil
}
