package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"social_analytics/internal/model"
	"social_analytics/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateTask inserts a new task and populates its ID and CreatedAt.
// The status defaults to pending if unset.
func (s *SQLite) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	filters, err := json.Marshal(task.Filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (name, status, filters, created_at) VALUES (?, ?, ?, ?)`,
		task.Name, string(task.Status), string(filters), now,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	task.ID = id
	task.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetTask returns a single task by its ID, or ErrTaskNotFound.
func (s *SQLite) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, status, filters, created_at, completed_at
		 FROM tasks WHERE id = ?`, id,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

// ListTasks returns all tasks ordered by ID.
func (s *SQLite) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, filters, created_at, completed_at
		 FROM tasks ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus transitions a task to the given status. A nil
// completedAt leaves the completion timestamp untouched.
func (s *SQLite) UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus, completedAt *time.Time) error {
	var completed *string
	if completedAt != nil {
		v := completedAt.UTC().Format(timeLayout)
		completed = &v
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?`,
		string(status), completed, id,
	)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CreatePost inserts a normalized post and populates its ID.
func (s *SQLite) CreatePost(ctx context.Context, post *model.Post) error {
	hashtags, err := json.Marshal(post.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (task_id, source, post_id, timestamp, content, likes, comments, shares, hashtags, content_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.TaskID, post.Source, post.PostID, post.Timestamp.UTC().Format(timeLayout),
		post.Content, post.Likes, post.Comments, post.Shares, string(hashtags), post.ContentType,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	post.ID = id
	return nil
}

// ListPosts returns all posts belonging to the given task, ordered by ID.
func (s *SQLite) ListPosts(ctx context.Context, taskID int64) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, source, post_id, timestamp, content, likes, comments, shares, hashtags, content_type
		 FROM posts WHERE task_id = ? ORDER BY id`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var ts, hashtags string
		err := rows.Scan(&p.ID, &p.TaskID, &p.Source, &p.PostID, &ts, &p.Content,
			&p.Likes, &p.Comments, &p.Shares, &hashtags, &p.ContentType)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Timestamp, _ = time.Parse(timeLayout, ts)
		if err := json.Unmarshal([]byte(hashtags), &p.Hashtags); err != nil {
			return nil, fmt.Errorf("unmarshal hashtags: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var status, filters string
	var created, completed sql.NullString
	err := row.Scan(&t.ID, &t.Name, &status, &filters, &created, &completed)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Status = model.TaskStatus(status)
	if err := json.Unmarshal([]byte(filters), &t.Filters); err != nil {
		return nil, fmt.Errorf("unmarshal filters: %w", err)
	}
	if created.Valid {
		t.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	if completed.Valid {
		ts, _ := time.Parse(timeLayout, completed.String)
		t.CompletedAt = &ts
	}
	return &t, nil
}
