package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with report-engine context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON slog logger with RFC3339 timestamps.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// RenderLogger logs one report render.
func (l *Logger) RenderLogger(reportID, location string, compositeScore int, grade string, duration time.Duration) {
	l.Info("Report Rendered",
		"report_id", reportID,
		"location", location,
		"composite_score", compositeScore,
		"grade", grade,
		"duration_ms", duration.Milliseconds(),
	)
}

// SessionLogger logs bundle-store operations.
func (l *Logger) SessionLogger(operation, sessionID string, hit bool, storeSize int) {
	l.Debug("Session Operation",
		"operation", operation,
		"session_id", sessionID,
		"hit", hit,
		"store_size", storeSize,
	)
}
