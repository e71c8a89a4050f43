package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Level represents log level
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger configuration
type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stdout.
	Output io.Writer
}

// New creates a new structured logger with the given configuration.
// Records logged with a context carrying a request id get a request_id attribute.
func New(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	handler := createHandler(out, cfg.Format, level)
	return slog.New(&contextHandler{next: handler})
}

// parseLevel converts string log level to slog.Level
func parseLevel(level Level) slog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// createHandler creates appropriate handler based on format
func createHandler(out io.Writer, format Format, level slog.Level) slog.Handler {
	addSource := level == slog.LevelDebug

	if format == FormatJSON {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     level,
			AddSource: addSource,
		})
	}
	// tint for console output; also the fallback for unknown formats
	return tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		AddSource:  addSource,
		NoColor:    out != os.Stdout && out != os.Stderr,
	})
}

// SetDefault sets the default logger for the application
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
