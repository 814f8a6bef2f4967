// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package samples

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pqtoolkit/pq-toolkit-api/apperr"
	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/db"
	"github.com/pqtoolkit/pq-toolkit-api/models"
)

// Service manages audio samples in the blob store and their ratings.
type Service struct {
	db    *sql.DB
	store blobstore.Store
}

func NewService(db *sql.DB, store blobstore.Store) *Service {
	return &Service{db: db, store: store}
}

// Rate records one more rating for a sample. Only files present in the
// global listing can be rated.
func (s *Service) Rate(ctx context.Context, filename string, rating int) error {
	names, err := s.store.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list samples: %w", err)
	}
	if !slices.Contains(names, filename) {
		return apperr.SampleNotFound(filename)
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sample_ratings (id, filename, rating)
		VALUES ($1, $2, $3)
	`, id, filename, rating)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// ListWithAverages pages through the global listing and attaches each
// file's mean rating, 0 when it has none.
func (s *Service) ListWithAverages(ctx context.Context, offset, limit int) ([]models.SampleRatingSummary, error) {
	names, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	page := paginate(names, offset, limit)

	summaries := make([]models.SampleRatingSummary, 0, len(page))
	for _, name := range page {
		var avg sql.NullFloat64
		err := s.db.QueryRowContext(ctx, `
			SELECT AVG(rating) FROM sample_ratings WHERE filename = $1
		`, name).Scan(&avg)
		if err != nil {
			return nil, fmt.Errorf("failed to average ratings: %w", err)
		}
		summaries = append(summaries, models.SampleRatingSummary{Filename: name, AverageRating: avg.Float64})
	}
	return summaries, nil
}

// Delete removes a global sample, then all of its ratings in one
// transaction. The two steps are not atomic together. Ratings of a sample
// whose file is already gone are still removed before SAMPLE_NOT_FOUND is
// returned.
func (s *Service) Delete(ctx context.Context, filename string) error {
	blobErr := s.store.Delete(ctx, filename, "")
	if blobErr != nil && !errors.Is(blobErr, blobstore.ErrNotFound) {
		return mapBlobErr(blobErr, filename)
	}
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM sample_ratings WHERE filename = $1`, filename)
		if err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return mapBlobErr(blobErr, filename)
}

// Upload stores a global sample, replacing any file with the same name.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (int64, error) {
	return s.put(ctx, filename, r, "")
}

// Get opens a global sample for streaming. The caller closes it.
func (s *Service) Get(ctx context.Context, filename string) (io.ReadCloser, error) {
	rc, err := s.store.Get(ctx, filename, "")
	if err != nil {
		return nil, mapBlobErr(err, filename)
	}
	return rc, nil
}

// Search returns global sample names containing title, ignoring case.
func (s *Service) Search(ctx context.Context, title string) ([]string, error) {
	names, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	needle := strings.ToLower(title)
	matches := []string{}
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

// Experiment samples live in a namespace named after the experiment.

func (s *Service) ListExperiment(ctx context.Context, experiment string) ([]string, error) {
	names, err := s.store.List(ctx, experiment)
	if err != nil {
		return nil, mapBlobErr(err, experiment)
	}
	return names, nil
}

func (s *Service) GetExperiment(ctx context.Context, experiment, filename string) (io.ReadCloser, error) {
	rc, err := s.store.Get(ctx, filename, experiment)
	if err != nil {
		return nil, mapBlobErr(err, filename)
	}
	return rc, nil
}

func (s *Service) UploadExperiment(ctx context.Context, experiment, filename string, r io.Reader) (int64, error) {
	return s.put(ctx, filename, r, experiment)
}

func (s *Service) DeleteExperiment(ctx context.Context, experiment, filename string) error {
	return mapBlobErr(s.store.Delete(ctx, filename, experiment), filename)
}

func (s *Service) put(ctx context.Context, filename string, r io.Reader, namespace string) (int64, error) {
	n, err := s.store.Put(ctx, filename, r, namespace)
	if err != nil {
		return 0, mapBlobErr(err, filename)
	}
	slog.Info("sample uploaded", "filename", filename, "namespace", namespace, "size", humanize.Bytes(uint64(n)))
	return n, nil
}

func mapBlobErr(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, blobstore.ErrNotFound):
		return apperr.SampleNotFound(name)
	case errors.Is(err, blobstore.ErrInvalidName):
		return apperr.IncorrectInputData(fmt.Sprintf("invalid sample name %q", name))
	default:
		return fmt.Errorf("blob store: %w", err)
	}
}

func paginate(names []string, offset, limit int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(names) || limit <= 0 {
		return []string{}
	}
	if limit > len(names)-offset {
		limit = len(names) - offset
	}
	return names[offset : offset+limit]
}
