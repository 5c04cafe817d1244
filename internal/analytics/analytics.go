// Package analytics computes engagement summaries over ingested posts.
package analytics

import (
	"context"
	"fmt"

	"social_analytics/internal/model"
	"social_analytics/internal/storage"
)

// Aggregator computes per-task analytics from the persisted post set.
type Aggregator struct {
	store storage.Storage
}

// New creates an Aggregator reading from the given store.
func New(store storage.Storage) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate recomputes the full summary for one task from current
// persisted state. A task without posts yields all-zero output.
func (a *Aggregator) Aggregate(ctx context.Context, taskID int64) (*model.Analytics, error) {
	posts, err := a.store.ListPosts(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return Summarize(posts), nil
}

// Summarize computes analytics over the given post set. Each hashtag
// counts once per post, however many times it appears in that post.
func Summarize(posts []model.Post) *model.Analytics {
	out := &model.Analytics{
		TotalPosts:    len(posts),
		HashtagCounts: map[string]int{},
	}

	for _, p := range posts {
		out.TotalEngagement += p.Engagement()

		seen := map[string]bool{}
		for _, tag := range p.Hashtags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out.HashtagCounts[tag]++
		}
	}

	if out.TotalPosts > 0 {
		out.EngagementRate = float64(out.TotalEngagement) / float64(out.TotalPosts)
	}
	return out
}
