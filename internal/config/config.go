// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	HTTPAddr      string
	DatabasePath  string
	DataDir       string
	LogLevel      string
	PipelineDelay time.Duration
	CORSOrigin    string
}

// Load reads configuration from environment variables. A local .env file,
// if present, is loaded first without overriding the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/analytics.db"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	delay := 5 * time.Second
	if raw := os.Getenv("PIPELINE_DELAY_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("invalid PIPELINE_DELAY_SECONDS %q", raw)
		}
		delay = time.Duration(secs) * time.Second
	}

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	return &Config{
		HTTPAddr:      addr,
		DatabasePath:  dbPath,
		DataDir:       dataDir,
		LogLevel:      logLevel,
		PipelineDelay: delay,
		CORSOrigin:    origin,
	}, nil
}
