// Package pipeline drives the asynchronous ingestion of raw records into posts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"social_analytics/internal/filter"
	"social_analytics/internal/model"
	"social_analytics/internal/source"
	"social_analytics/internal/storage"
)

const defaultQueueSize = 64

// Runner processes ingestion tasks from a queue, one at a time.
type Runner struct {
	store   storage.Storage
	sources []source.Source
	log     *slog.Logger
	delay   time.Duration
	queue   chan int64
}

// New creates a Runner with the default source set (twitter, then
// instagram) backed by files under dataDir. delay is the artificial wait
// before data loading begins.
func New(store storage.Storage, dataDir string, delay time.Duration, log *slog.Logger) *Runner {
	sources := []source.Source{
		source.NewTwitter(filepath.Join(dataDir, "twitter_data.json"), log),
		source.NewInstagram(filepath.Join(dataDir, "instagram_data.csv"), log),
	}
	return NewWithSources(store, sources, delay, log)
}

// NewWithSources creates a Runner over an explicit source list (useful for
// testing). Sources are processed in the given order.
func NewWithSources(store storage.Storage, sources []source.Source, delay time.Duration, log *slog.Logger) *Runner {
	return &Runner{
		store:   store,
		sources: sources,
		log:     log,
		delay:   delay,
		queue:   make(chan int64, defaultQueueSize),
	}
}

// Enqueue schedules a task for background processing. It never blocks the
// caller; if the queue is full the task stays pending and is reported.
func (r *Runner) Enqueue(taskID int64) {
	select {
	case r.queue <- taskID:
	default:
		r.log.Error("pipeline queue full, task left pending", "task_id", taskID)
	}
}

// Run starts the worker loop, blocking until ctx is cancelled. Tasks are
// processed sequentially; each run has its own error boundary so one
// failing task cannot take down the worker.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-r.queue:
			r.runTask(ctx, id)
		}
	}
}

// runTask executes one task inside a panic-recovery boundary. A panic or
// pipeline error marks the task failed; a missing task is only logged,
// there is nothing left to mutate.
func (r *Runner) runTask(ctx context.Context, taskID int64) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("pipeline panic", "task_id", taskID, "panic", p)
			r.markFailed(ctx, taskID)
		}
	}()

	if err := r.Process(ctx, taskID); err != nil {
		r.log.Error("task failed", "task_id", taskID, "error", err)
	}
}

// Process runs the full ingestion pipeline for one task: load each
// configured source, filter and normalize its records, persist the
// resulting posts, and drive the task lifecycle to a terminal status.
//
// A missing task returns storage.ErrTaskNotFound without touching any
// state. Any other failure transitions the task to failed and is
// returned to the caller.
func (r *Runner) Process(ctx context.Context, taskID int64) error {
	task, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task %d: %w", taskID, err)
	}

	if err := r.process(ctx, task); err != nil {
		r.markFailed(ctx, taskID)
		return err
	}
	return nil
}

func (r *Runner) process(ctx context.Context, task *model.Task) error {
	if err := r.store.UpdateTaskStatus(ctx, task.ID, model.StatusInProgress, nil); err != nil {
		return fmt.Errorf("mark in_progress: %w", err)
	}
	r.log.Info("processing task", "task_id", task.ID, "name", task.Name)

	if err := r.wait(ctx); err != nil {
		return err
	}

	for _, src := range r.sources {
		if !task.Filters.HasPlatform(src.Platform()) {
			r.log.Debug("platform not selected, skipping source", "task_id", task.ID, "platform", src.Platform())
			continue
		}
		if err := r.ingestSource(ctx, task, src); err != nil {
			return fmt.Errorf("ingest %s: %w", src.Platform(), err)
		}
	}

	now := time.Now().UTC()
	if err := r.store.UpdateTaskStatus(ctx, task.ID, model.StatusCompleted, &now); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	r.log.Info("task completed", "task_id", task.ID)
	return nil
}

// ingestSource loads one source and persists every record that passes the
// filter. Normalization failures skip only the offending record.
func (r *Runner) ingestSource(ctx context.Context, task *model.Task, src source.Source) error {
	records, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	ingested := 0
	for _, rec := range records {
		candidate := filter.Candidate{
			Timestamp: rec.RawTimestamp(),
			Hashtags:  rec.RawHashtags(),
		}
		if !filter.Matches(candidate, task.Filters) {
			continue
		}

		post, err := src.Normalize(task.ID, rec)
		if err != nil {
			r.log.Warn("skipping malformed record", "task_id", task.ID, "platform", src.Platform(), "error", err)
			continue
		}

		if err := r.store.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("persist post %s: %w", post.PostID, err)
		}
		ingested++
	}

	r.log.Info("source ingested", "task_id", task.ID, "platform", src.Platform(), "posts", ingested)
	return nil
}

// wait pauses before data loading without holding any resource.
func (r *Runner) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) markFailed(ctx context.Context, taskID int64) {
	// Failed tasks carry no completion timestamp.
	if err := r.store.UpdateTaskStatus(ctx, taskID, model.StatusFailed, nil); err != nil {
		r.log.Error("mark failed", "task_id", taskID, "error", err)
	}
}
