package splitplan

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with splitplan-specific helpers, providing
// structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil,
// a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithRoot adds the dataset root field to the logger.
func (l *Logger) WithRoot(root string) *Logger {
	return &Logger{Logger: l.Logger.With("root", root)}
}

// LogPlan logs the outcome of a planning pass.
func (l *Logger) LogPlan(cached, uncached, surviving, total int) {
	l.Debug("split plan computed",
		"cached_predicates", cached,
		"uncached_predicates", uncached,
		"surviving_blocks", surviving,
		"total_blocks", total,
	)
}

// LogUnreferencedFile warns that a file is absent from the block catalog,
// so statistics filtering was skipped for it. This usually means metadata
// and data have drifted apart.
func (l *Logger) LogUnreferencedFile(path string) {
	l.Warn("file not present in block catalog, returning whole-file split",
		"path", path,
	)
}
