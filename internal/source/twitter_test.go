package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"social_analytics/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTwitterLoad(t *testing.T) {
	src := NewTwitter("../../testdata/twitter_data.json", discardLogger())
	ctx := context.Background()

	records, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	first, ok := records[0].(TwitterRecord)
	if !ok {
		t.Fatalf("expected TwitterRecord, got %T", records[0])
	}
	want := TwitterRecord{
		ID:          "tw-1001",
		Timestamp:   "2024-01-15T10:30:00",
		Content:     "Shipping our new AI assistant today!",
		Likes:       120,
		Comments:    14,
		Shares:      32,
		Hashtags:    []string{"ai", "ml"},
		ContentType: "text",
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("first record mismatch (-want +got):\n%s", diff)
	}
}

func TestTwitterLoadMissingFile(t *testing.T) {
	src := NewTwitter(filepath.Join(t.TempDir(), "absent.json"), discardLogger())

	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %d records", len(records))
	}
}

func TestTwitterLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twitter_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := NewTwitter(path, discardLogger())

	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func TestTwitterNormalize(t *testing.T) {
	src := NewTwitter("", discardLogger())

	tests := []struct {
		name    string
		rec     TwitterRecord
		want    *model.Post
		wantErr bool
	}{
		{
			name: "full record",
			rec: TwitterRecord{
				ID: "tw-1", Timestamp: "2024-01-15T10:30:00", Content: "hello",
				Likes: 3, Comments: 1, Shares: 2,
				Hashtags: []string{"ai"}, ContentType: "text",
			},
			want: &model.Post{
				TaskID: 7, Source: "twitter", PostID: "tw-1",
				Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
				Content:   "hello", Likes: 3, Comments: 1, Shares: 2,
				Hashtags: []string{"ai"}, ContentType: "text",
			},
		},
		{
			name: "zoned timestamp",
			rec: TwitterRecord{
				ID: "tw-2", Timestamp: "2024-01-15T10:30:00Z",
				Hashtags: []string{}, ContentType: "text",
			},
			want: &model.Post{
				TaskID: 7, Source: "twitter", PostID: "tw-2",
				Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
				Hashtags:  []string{}, ContentType: "text",
			},
		},
		{
			name: "nil hashtags become empty set",
			rec: TwitterRecord{
				ID: "tw-3", Timestamp: "2024-01-15T10:30:00", ContentType: "text",
			},
			want: &model.Post{
				TaskID: 7, Source: "twitter", PostID: "tw-3",
				Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
				Hashtags:  []string{}, ContentType: "text",
			},
		},
		{
			name: "negative counters coerce to zero",
			rec: TwitterRecord{
				ID: "tw-4", Timestamp: "2024-01-15T10:30:00",
				Likes: -5, Comments: -1, Shares: 9,
			},
			want: &model.Post{
				TaskID: 7, Source: "twitter", PostID: "tw-4",
				Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
				Shares:    9, Hashtags: []string{},
			},
		},
		{
			name:    "unparseable timestamp",
			rec:     TwitterRecord{ID: "tw-5", Timestamp: "not-a-date"},
			wantErr: true,
		},
		{
			name:    "missing timestamp",
			rec:     TwitterRecord{ID: "tw-6"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Normalize(7, tt.rec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTwitterNormalizeWrongRecordType(t *testing.T) {
	src := NewTwitter("", discardLogger())
	if _, err := src.Normalize(1, InstagramRecord{}); err == nil {
		t.Fatal("expected error for foreign record type")
	}
}
