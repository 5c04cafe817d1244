// Package api exposes the HTTP surface for creating tasks and reading results.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_analytics/internal/analytics"
	"social_analytics/internal/pipeline"
	"social_analytics/internal/storage"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	store      storage.Storage
	runner     *pipeline.Runner
	aggregator *analytics.Aggregator
	log        *slog.Logger
	corsOrigin string
}

// New creates a Server.
func New(store storage.Storage, runner *pipeline.Runner, corsOrigin string, log *slog.Logger) *Server {
	return &Server{
		store:      store,
		runner:     runner,
		aggregator: analytics.New(store),
		log:        log,
		corsOrigin: corsOrigin,
	}
}

// Router builds the gin engine with all routes and middleware registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(s.recoveryMiddleware(), s.corsMiddleware())

	router.POST("/tasks", s.createTask)
	router.GET("/tasks", s.listTasks)
	router.GET("/tasks/:id", s.getTask)
	router.GET("/tasks/:id/posts", s.listTaskPosts)
	router.GET("/analytics/:id", s.getTaskAnalytics)

	return router
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", s.corsOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				s.log.Error("request handler panic",
					"panic", p,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
