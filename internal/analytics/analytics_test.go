package analytics

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"social_analytics/internal/model"
	"social_analytics/internal/storage"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		posts []model.Post
		want  *model.Analytics
	}{
		{
			name:  "no posts yields zeros, not a division error",
			posts: nil,
			want: &model.Analytics{
				TotalPosts:      0,
				TotalEngagement: 0,
				EngagementRate:  0,
				HashtagCounts:   map[string]int{},
			},
		},
		{
			name: "engagement summed across posts",
			posts: []model.Post{
				{Likes: 10, Comments: 2, Shares: 3, Hashtags: []string{"ai"}},
				{Likes: 5, Comments: 0, Shares: 0, Hashtags: []string{"ai", "ml"}},
			},
			want: &model.Analytics{
				TotalPosts:      2,
				TotalEngagement: 20,
				EngagementRate:  10,
				HashtagCounts:   map[string]int{"ai": 2, "ml": 1},
			},
		},
		{
			name: "duplicate hashtag in one post counts once",
			posts: []model.Post{
				{Likes: 1, Hashtags: []string{"ai", "ai", "ml"}},
			},
			want: &model.Analytics{
				TotalPosts:      1,
				TotalEngagement: 1,
				EngagementRate:  1,
				HashtagCounts:   map[string]int{"ai": 1, "ml": 1},
			},
		},
		{
			name: "posts without hashtags contribute no counts",
			posts: []model.Post{
				{Likes: 4, Hashtags: []string{}},
				{Comments: 2, Hashtags: nil},
			},
			want: &model.Analytics{
				TotalPosts:      2,
				TotalEngagement: 6,
				EngagementRate:  3,
				HashtagCounts:   map[string]int{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.posts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregateIdempotent(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	task := &model.Task{Name: "agg", Filters: model.FilterSpec{Platforms: []string{"twitter"}}}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	posts := []model.Post{
		{TaskID: task.ID, Source: "twitter", PostID: "a", Likes: 7, Comments: 1, Shares: 2, Hashtags: []string{"ai"}},
		{TaskID: task.ID, Source: "twitter", PostID: "b", Likes: 3, Hashtags: []string{"ai", "golang"}},
	}
	for i := range posts {
		if err := store.CreatePost(ctx, &posts[i]); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}

	agg := New(store)
	first, err := agg.Aggregate(ctx, task.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	second, err := agg.Aggregate(ctx, task.ID)
	if err != nil {
		t.Fatalf("aggregate again: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("aggregate not idempotent (-first +second):\n%s", diff)
	}

	want := &model.Analytics{
		TotalPosts:      2,
		TotalEngagement: 13,
		EngagementRate:  6.5,
		HashtagCounts:   map[string]int{"ai": 2, "golang": 1},
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateUnknownTaskYieldsZeros(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	got, err := New(store).Aggregate(ctx, 999)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := &model.Analytics{HashtagCounts: map[string]int{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}
