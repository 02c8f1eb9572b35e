package health

import (
	"log/slog"
	"time"
)

type Handler struct {
	levelVar *slog.LevelVar
	started  time.Time
	checks   map[string]Check
}

// Check reports an error when a dependency is unavailable.
type Check func() error

type healthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
}

type loggerResponse struct {
	LogLevel string `json:"log_level"`
}
