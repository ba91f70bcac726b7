// Package logging builds the process-wide zerolog root logger from
// configuration. Components derive their own loggers from it via With().
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"restaurante/internal/config"

	"github.com/rs/zerolog"
)

// New returns the root logger plus an io.Closer for file-backed output
// (nil otherwise). Unset fields fall back to JSON at info level on
// stdout.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	out, closer, err := openOutput(cfg)
	if err != nil {
		return nil, nil, err
	}

	if normalize(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &logger, closer, nil
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(normalize(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func openOutput(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch normalize(cfg.Output) {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return file, file, nil
	default:
		return os.Stdout, nil, nil
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
