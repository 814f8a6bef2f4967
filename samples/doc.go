// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package samples manages audio sample files and listener ratings of them.

Files are kept in a blobstore.Store; ratings are rows in sample_ratings
keyed by filename. Ratings accumulate, each Rate call adds a row.

	svc := samples.NewService(db, store)
	err := svc.Rate(ctx, "piano.mp3", 4)
	page, err := svc.ListWithAverages(ctx, 0, 10)

Only files present in the global listing can be rated. Paging applies to
the listing, so files without ratings appear with an average of 0.

Delete removes the file first and its ratings afterwards. A failure
between the two steps can leave orphaned ratings.

Experiment samples are stored in a namespace named after the experiment
and have no ratings.
*/
package samples
