// Package logging provides structured logging with zap.
package logging

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const loggerKey contextKey = "logger"

var (
	mu           sync.RWMutex
	globalLogger *zap.Logger
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

// Init initializes the global logger.
func Init(cfg Config) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	globalLevel.SetLevel(level)
	config.Level = globalLevel
	// stdout is reserved for the MCP protocol
	config.OutputPaths = []string{"stderr"}
	if cfg.OutputPath != "" {
		config.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}

	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// SetLevel changes the global log level at runtime.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger, a production logger on stderr until Init runs.
func L() *zap.Logger {
	mu.RLock()
	logger := globalLogger
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		config := zap.NewProductionConfig()
		config.Level = globalLevel
		config.OutputPaths = []string{"stderr"}
		l, err := config.Build()
		if err != nil {
			l = zap.NewNop()
		}
		globalLogger = l
	}
	return globalLogger
}

// OrDefault returns logger, or the global logger when logger is nil.
func OrDefault(logger *zap.Logger) *zap.Logger {
	if logger != nil {
		return logger
	}
	return L()
}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithContext returns a logger from context, or the global logger.
func WithContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return L()
}

// WithRequest tags the context logger with a tool name and request ID.
func WithRequest(ctx context.Context, tool string) context.Context {
	logger := WithContext(ctx).With(
		zap.String("tool", tool),
		zap.String("request_id", newRequestID()),
	)
	return context.WithValue(ctx, loggerKey, logger)
}

var (
	requestMu      sync.Mutex
	requestCounter uint64
)

func newRequestID() string {
	requestMu.Lock()
	requestCounter++
	n := requestCounter
	requestMu.Unlock()
	return time.Now().UTC().Format("20060102T150405") + "-" + strconv.FormatUint(n, 10)
}
