package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"social_analytics/internal/model"
)

// Instagram exports carry tabular dates in a handful of shapes.
var instagramTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// InstagramRecord is one raw row from the instagram CSV export. All cells
// arrive as strings; coercion happens during normalization.
type InstagramRecord struct {
	ID          string
	Timestamp   string
	Content     string
	Likes       string
	Comments    string
	Shares      string
	Hashtags    string
	ContentType string
}

// RawTimestamp returns the tabular date cell as-is.
func (r InstagramRecord) RawTimestamp() string { return r.Timestamp }

// RawHashtags splits the comma-joined hashtag cell. An empty cell yields
// no hashtags.
func (r InstagramRecord) RawHashtags() []string { return splitHashtags(r.Hashtags) }

// Instagram loads records from a CSV file with a header row.
type Instagram struct {
	path string
	log  *slog.Logger
}

// NewInstagram creates an instagram source reading from the given file path.
func NewInstagram(path string, log *slog.Logger) *Instagram {
	return &Instagram{path: path, log: log}
}

// Platform returns the source identifier.
func (i *Instagram) Platform() string { return model.PlatformInstagram }

// Load reads the full row set from the backing CSV file. A missing file
// is logged as a warning and yields an empty result; an unparseable file
// is an error.
func (i *Instagram) Load(_ context.Context) ([]Record, error) {
	f, err := os.Open(i.path)
	if os.IsNotExist(err) {
		i.log.Warn("instagram data file not found", "path", i.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open instagram data: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse instagram data: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		cols[strings.TrimSpace(name)] = idx
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, InstagramRecord{
			ID:          cell(row, "id"),
			Timestamp:   cell(row, "timestamp"),
			Content:     cell(row, "content"),
			Likes:       cell(row, "likes"),
			Comments:    cell(row, "comments"),
			Shares:      cell(row, "shares"),
			Hashtags:    cell(row, "hashtags"),
			ContentType: cell(row, "content_type"),
		})
	}
	return records, nil
}

// Normalize maps a raw instagram row into a post. Counter cells that are
// absent, empty, or non-numeric coerce to zero; the comma-joined hashtag
// cell becomes a slice; the timestamp must parse as a tabular date.
func (i *Instagram) Normalize(taskID int64, rec Record) (*model.Post, error) {
	r, ok := rec.(InstagramRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", rec)
	}

	ts, err := parseTime(r.Timestamp, instagramTimeLayouts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", r.Timestamp, err)
	}

	return &model.Post{
		TaskID:      taskID,
		Source:      model.PlatformInstagram,
		PostID:      r.ID,
		Timestamp:   ts,
		Content:     r.Content,
		Likes:       coerceCount(r.Likes),
		Comments:    coerceCount(r.Comments),
		Shares:      coerceCount(r.Shares),
		Hashtags:    splitHashtags(r.Hashtags),
		ContentType: r.ContentType,
	}, nil
}

// coerceCount parses a counter cell, treating anything unparseable or
// negative as zero.
func coerceCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func splitHashtags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
