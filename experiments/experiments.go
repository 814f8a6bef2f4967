// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package experiments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/db"
	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/storage"
	"github.com/pqtoolkit/pq-toolkit-api/testtypes"
)

// Repository manages experiments and their test definitions.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns the names of all experiments, configured or not.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	experiments, err := storage.ListExperiments(ctx, r.db)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(experiments))
	for _, exp := range experiments {
		names = append(names, exp.Name)
	}
	return names, nil
}

// GetAll returns every experiment keyed by id, with nested tests and results.
func (r *Repository) GetAll(ctx context.Context) (map[string]models.ExperimentView, error) {
	all := map[string]models.ExperimentView{}
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		experiments, err := storage.ListExperiments(ctx, tx)
		if err != nil {
			return err
		}
		for _, exp := range experiments {
			view, err := storage.BuildView(ctx, tx, exp)
			if err != nil {
				return err
			}
			all[exp.ID] = view
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// GetByName returns a configured experiment. Unconfigured experiments fail
// with EXPERIMENT_NOT_CONFIGURED.
func (r *Repository) GetByName(ctx context.Context, name string) (models.ExperimentView, error) {
	var view models.ExperimentView
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		exp, err := storage.FindExperiment(ctx, tx, name)
		if err != nil {
			return err
		}
		if !exp.Configured {
			return apperr.ExperimentNotConfigured(name)
		}
		view, err = storage.BuildView(ctx, tx, exp)
		return err
	})
	return view, err
}

// Create registers a new unconfigured experiment. A taken name fails with
// EXPERIMENT_ALREADY_EXISTS, detected from the unique constraint.
func (r *Repository) Create(ctx context.Context, name string) error {
	// The name doubles as the sample namespace of the experiment
	if err := blobstore.ValidateName(name); err != nil {
		return apperr.IncorrectInputData(fmt.Sprintf("experiment name %q is not allowed", name))
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO experiments (id, name, configured)
		VALUES ($1, $2, $3)
	`, id, name, false)
	if db.IsUniqueViolation(err) {
		return apperr.ExperimentAlreadyExists(name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert experiment: %w", err)
	}
	return nil
}

// Delete removes the experiment with all its tests and results in one
// transaction.
func (r *Repository) Delete(ctx context.Context, name string) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		exp, err := storage.FindExperiment(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := storage.DeleteExperimentTests(ctx, tx, exp.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM experiments WHERE id = $1`, exp.ID); err != nil {
			return fmt.Errorf("failed to delete experiment: %w", err)
		}
		return nil
	})
}

// Configure replaces the experiment's description and its whole test set
// with the uploaded configuration and marks it configured. Old tests and
// their results are deleted. Nothing changes if any step fails.
func (r *Repository) Configure(ctx context.Context, name string, data []byte) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		exp, err := storage.FindExperiment(ctx, tx, name)
		if err != nil {
			return err
		}

		cfg, err := testtypes.DecodeExperimentConfig(data)
		if err != nil {
			return err
		}

		if err := storage.DeleteExperimentTests(ctx, tx, exp.ID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE experiments
			SET full_name = $1, description = $2, end_text = $3, configured = $4
			WHERE id = $5
		`, cfg.FullName, cfg.Description, cfg.EndText, true, exp.ID)
		if err != nil {
			return fmt.Errorf("failed to update experiment: %w", err)
		}

		for _, def := range cfg.Tests {
			setup, err := testtypes.EncodeSetup(def.Setup)
			if err != nil {
				return fmt.Errorf("failed to encode setup: %w", err)
			}
			id, err := auth.GenerateID(16)
			if err != nil {
				return err
			}
			err = storage.InsertTest(ctx, tx, storage.TestRow{
				ID:           id,
				ExperimentID: exp.ID,
				Number:       def.Number,
				Type:         def.Type,
				Setup:        setup,
			})
			if db.IsUniqueViolation(err) {
				return apperr.IncorrectInputData(fmt.Sprintf("duplicate test number %d", def.Number))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTest returns a single test with all of its results.
func (r *Repository) GetTest(ctx context.Context, id string) (models.TestView, error) {
	var view models.TestView
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row, err := storage.FindTest(ctx, tx, id)
		if err != nil {
			return err
		}
		resultRows, err := storage.ListResults(ctx, tx, storage.ResultFilter{TestID: id})
		if err != nil {
			return err
		}
		results, err := storage.DecodeResults(resultRows)
		if err != nil {
			return err
		}
		view, err = testtypes.Shape(row.Test(), row.Setup, results)
		return err
	})
	return view, err
}
