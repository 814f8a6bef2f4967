// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package blobstore stores audio sample bytes by name.

	store, err := blobstore.NewFSStore(cfg.SamplesDir)
	names, err := store.List(ctx, "")            // global samples
	names, err := store.List(ctx, "exp1")        // samples of experiment exp1
	rc, err := store.Get(ctx, "a.mp3", "exp1")   // streamed; caller closes

Global blobs are files directly under the root; namespaced blobs live under
experiments/<namespace>/. Each operation is atomic per object. Blob
operations are not part of any database transaction.
*/
package blobstore
