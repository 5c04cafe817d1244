// Package model defines the domain types used across the application.
package model

import "time"

// TaskStatus is the lifecycle state of an ingestion task.
type TaskStatus string

// Task lifecycle states. A task starts pending, moves to in_progress when
// the pipeline picks it up, and ends in exactly one of completed or failed.
const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Supported source platforms, in pipeline processing order.
const (
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
)

// FilterSpec describes which raw records become posts for a task.
type FilterSpec struct {
	Platforms []string `json:"platforms"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Hashtags  []string `json:"hashtags,omitempty"`
}

// HasPlatform reports whether the given platform is included in the spec.
func (f FilterSpec) HasPlatform(platform string) bool {
	for _, p := range f.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Task represents one ingestion run.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Status      TaskStatus `json:"status"`
	Filters     FilterSpec `json:"filters"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Post is one normalized social-media record owned by a task.
type Post struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	Source      string    `json:"source"`
	PostID      string    `json:"post_id"`
	Timestamp   time.Time `json:"timestamp"`
	Content     string    `json:"content"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	Hashtags    []string  `json:"hashtags"`
	ContentType string    `json:"content_type"`
}

// Engagement returns the combined engagement count for the post.
func (p Post) Engagement() int {
	return p.Likes + p.Comments + p.Shares
}

// Analytics summarizes the posts ingested for one task.
type Analytics struct {
	TotalPosts      int            `json:"total_posts"`
	TotalEngagement int            `json:"total_engagement"`
	EngagementRate  float64        `json:"engagement_rate"`
	HashtagCounts   map[string]int `json:"hashtag_counts"`
}
