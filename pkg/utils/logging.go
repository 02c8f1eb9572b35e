package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func ParseLogLevel(logLevel string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "fatal":
		return slog.LevelError, nil // slog has no fatal level
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", logLevel)
	}
}

// Logging is the configured default logger along with its adjustable level.
type Logging struct {
	Logger *slog.Logger
	Level  *slog.LevelVar
	out    io.Closer
}

// ConfigureLogger installs a text handler as the slog default.  Output goes to
// logFileLocation when set, stderr otherwise.
func ConfigureLogger(logLevel string, logFileLocation string) (*Logging, error) {
	currentLevel := new(slog.LevelVar)

	level, err := ParseLogLevel(logLevel)
	if err != nil {
		slog.Error("Failed to parse the log level, using info", "error", err, "log_level", logLevel)
	}
	currentLevel.Set(level)

	var out io.Writer = os.Stderr
	var closer io.Closer
	if len(logFileLocation) != 0 {
		logFile, err := os.OpenFile(logFileLocation, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = logFile
		closer = logFile
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: currentLevel}))
	slog.SetDefault(logger)

	return &Logging{Logger: logger, Level: currentLevel, out: closer}, nil
}

// Close closes the log file, if one was opened.
func (l *Logging) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	return l.out.Close()
}
