// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

// Store is a flat byte store addressed by name, optionally scoped to a
// namespace. An empty namespace is the global scope.
type Store interface {
	List(ctx context.Context, namespace string) ([]string, error)
	Get(ctx context.Context, name, namespace string) (io.ReadCloser, error)
	Put(ctx context.Context, name string, r io.Reader, namespace string) (int64, error)
	Delete(ctx context.Context, name, namespace string) error
}

// namespaces live below this directory so they never show up in the
// global listing
const namespaceDir = "experiments"

// FSStore keeps blobs as files under a root directory.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("blob store root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob store root: %w", err)
	}
	return &FSStore{root: filepath.Clean(root)}, nil
}

// List returns the names of all blobs in the namespace, sorted.
// A namespace that has never been written to is empty, not an error.
func (s *FSStore) List(ctx context.Context, namespace string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.dir(namespace)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Get opens a blob for streaming. The caller must Close the reader; reads
// fail with the context error once ctx is done.
func (s *FSStore) Get(ctx context.Context, name, namespace string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name, namespace)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return &ctxReader{ctx: ctx, f: f}, nil
}

// Put stores r under name, replacing any existing blob. The blob becomes
// visible only once fully written.
func (s *FSStore) Put(ctx context.Context, name string, r io.Reader, namespace string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := s.path(name, namespace)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create namespace: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("commit blob: %w", err)
	}
	return n, nil
}

// Delete removes a blob. Missing blobs return ErrNotFound.
func (s *FSStore) Delete(ctx context.Context, name, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name, namespace)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (s *FSStore) dir(namespace string) (string, error) {
	if namespace == "" {
		return s.root, nil
	}
	if err := ValidateName(namespace); err != nil {
		return "", err
	}
	return filepath.Join(s.root, namespaceDir, namespace), nil
}

func (s *FSStore) path(name, namespace string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dir, err := s.dir(namespace)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ValidateName rejects names that could escape their namespace.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ctxReader stops reading once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
	f   *os.File
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	if c.f != nil {
		return c.f.Read(p)
	}
	return c.r.Read(p)
}

func (c *ctxReader) Close() error {
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

var _ Store = (*FSStore)(nil)
