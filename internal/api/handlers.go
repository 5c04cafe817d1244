package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social_analytics/internal/model"
	"social_analytics/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createTaskRequest struct {
	Name    string           `json:"name" binding:"required"`
	Filters model.FilterSpec `json:"filters"`
}

// createTask persists a new pending task and schedules its ingestion run.
// The response returns immediately; callers observe progress by polling
// the task status.
func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	task := &model.Task{Name: req.Name, Filters: req.Filters}
	if err := s.store.CreateTask(c.Request.Context(), task); err != nil {
		s.log.Error("create task", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create task"})
		return
	}

	s.runner.Enqueue(task.ID)
	s.log.Info("task created", "task_id", task.ID, "name", task.Name)

	c.JSON(http.StatusCreated, task)
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.log.Error("list tasks", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id)
	if errors.Is(err, storage.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		return
	}
	if err != nil {
		s.log.Error("get task", "task_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) listTaskPosts(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	posts, err := s.store.ListPosts(c.Request.Context(), id)
	if err != nil {
		s.log.Error("list posts", "task_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list posts"})
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

func (s *Server) getTaskAnalytics(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	summary, err := s.aggregator.Aggregate(c.Request.Context(), id)
	if err != nil {
		s.log.Error("aggregate", "task_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to compute analytics"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
		return 0, false
	}
	return id, true
}
