package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"social_analytics/internal/model"
)

// Twitter timestamps arrive as ISO-8601 strings, with or without a zone.
var twitterTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// TwitterRecord is one raw record from the twitter feed file.
type TwitterRecord struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	Content     string   `json:"content"`
	Likes       int      `json:"likes"`
	Comments    int      `json:"comments"`
	Shares      int      `json:"shares"`
	Hashtags    []string `json:"hashtags"`
	ContentType string   `json:"content_type"`
}

// RawTimestamp returns the ISO-8601 timestamp string.
func (r TwitterRecord) RawTimestamp() string { return r.Timestamp }

// RawHashtags returns the hashtags as loaded.
func (r TwitterRecord) RawHashtags() []string { return r.Hashtags }

// Twitter loads records from a JSON array file.
type Twitter struct {
	path string
	log  *slog.Logger
}

// NewTwitter creates a twitter source reading from the given file path.
func NewTwitter(path string, log *slog.Logger) *Twitter {
	return &Twitter{path: path, log: log}
}

// Platform returns the source identifier.
func (t *Twitter) Platform() string { return model.PlatformTwitter }

// Load reads the full record set from the backing JSON file. A missing
// file is logged as a warning and yields an empty result; an unparseable
// file is an error.
func (t *Twitter) Load(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		t.log.Warn("twitter data file not found", "path", t.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read twitter data: %w", err)
	}

	var raw []TwitterRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse twitter data: %w", err)
	}

	records := make([]Record, len(raw))
	for i, r := range raw {
		records[i] = r
	}
	return records, nil
}

// Normalize maps a raw twitter record into a post. Counters are already
// integers and hashtags already a string slice; only the timestamp needs
// parsing.
func (t *Twitter) Normalize(taskID int64, rec Record) (*model.Post, error) {
	r, ok := rec.(TwitterRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", rec)
	}

	ts, err := parseTime(r.Timestamp, twitterTimeLayouts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", r.Timestamp, err)
	}

	hashtags := r.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}

	return &model.Post{
		TaskID:      taskID,
		Source:      model.PlatformTwitter,
		PostID:      r.ID,
		Timestamp:   ts,
		Content:     r.Content,
		Likes:       clampNonNegative(r.Likes),
		Comments:    clampNonNegative(r.Comments),
		Shares:      clampNonNegative(r.Shares),
		Hashtags:    hashtags,
		ContentType: r.ContentType,
	}, nil
}

func parseTime(raw string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
