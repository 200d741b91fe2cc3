// Package logger provides a structured logging wrapper around Go's slog package.
// It supports both JSON and text formatted output, multiple log levels (debug, info, warn, error),
// and flexible output destinations (stdout, stderr, or file paths).
//
// Example usage:
//
//	log, err := logger.New(logger.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	if err != nil {
//	    panic(err)
//	}
//
//	log.Info("Agent started", logger.Field{Key: "version", Value: "1.0.0"})
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, or a file path
}

// Logger wraps slog.Logger with a small structured-field API.
type Logger struct {
	slog *slog.Logger
}

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value any
}

// New creates a logger from the given configuration.
func New(cfg Config) (*Logger, error) {
	level, valid := parseLevel(cfg.Level)
	if !valid {
		return nil, fmt.Errorf("invalid log level: %s (expected: debug, info, warn, error)", cfg.Level)
	}

	var writer io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		filePath := cfg.Output
		if strings.HasPrefix(filePath, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			filePath = filepath.Join(homeDir, filePath[2:])
		}
		filePath = filepath.Clean(filePath)
		dir := filepath.Dir(filePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
		}
		writer = file
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s (expected: json, text)", cfg.Format)
	}

	return &Logger{
		slog: slog.New(handler),
	}, nil
}

// SetDefault installs the logger as the process-wide slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.slog)
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{
		slog: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func toAttrs(fields []Field) []any {
	attrs := make([]any, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.slog.Debug(msg, toAttrs(fields)...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, fields ...Field) {
	l.slog.Info(msg, toAttrs(fields)...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.slog.Warn(msg, toAttrs(fields)...)
}

// Error logs a message at error level. The error may be nil.
func (l *Logger) Error(msg string, err error, fields ...Field) {
	attrs := toAttrs(fields)
	if err != nil {
		attrs = append(attrs, slog.Any("error", err.Error()))
	}
	l.slog.Error(msg, attrs...)
}

// DebugCtx logs a message at debug level with context.
func (l *Logger) DebugCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.DebugContext(ctx, msg, toAttrs(fields)...)
}

// InfoCtx logs a message at info level with context.
func (l *Logger) InfoCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.InfoContext(ctx, msg, toAttrs(fields)...)
}

// WarnCtx logs a message at warn level with context.
func (l *Logger) WarnCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.WarnContext(ctx, msg, toAttrs(fields)...)
}

// ErrorCtx logs a message at error level with context. The error may be nil.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, err error, fields ...Field) {
	attrs := toAttrs(fields)
	if err != nil {
		attrs = append(attrs, slog.Any("error", err.Error()))
	}
	l.slog.ErrorContext(ctx, msg, attrs...)
}
