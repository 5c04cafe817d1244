// Package source handles loading and normalizing raw social-media records.
//
// Each platform has its own native record shape. Records expose the raw
// timestamp and hashtags used by the filter evaluator; everything else is
// source-specific and handled by that source's normalizer.
package source

import (
	"context"

	"social_analytics/internal/model"
)

// Record is the raw view of one loaded record, prior to normalization.
type Record interface {
	// RawTimestamp returns the record timestamp in its source-native
	// string representation. Filters compare against this value.
	RawTimestamp() string

	// RawHashtags returns the record hashtags as loaded, before any
	// normalization.
	RawHashtags() []string
}

// Source loads raw records from one platform and normalizes them into posts.
type Source interface {
	// Platform returns the source identifier, e.g. "twitter".
	Platform() string

	// Load returns the full unfiltered record set for this source.
	// A missing backing medium yields an empty result, not an error.
	Load(ctx context.Context) ([]Record, error)

	// Normalize maps one raw record into a post owned by the given task.
	// A failure affects only this record.
	Normalize(taskID int64, rec Record) (*model.Post, error)
}
