package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/utils"
)

// Logger levels
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	SessionIDKey contextKey = "session_id"
	AgentKey     contextKey = "agent"
	ModelKey     contextKey = "model"
)

// Global logger instance
var Logger *slog.Logger

// Config holds logger configuration
type Config struct {
	Level       slog.Level
	Format      string // "json" or "text"
	Output      string // "stdout", "stderr", or file path
	ServiceName string
	Environment string
}

// DefaultConfig is used when no explicit configuration is provided
var DefaultConfig = Config{
	Level:       LevelInfo,
	Format:      "json",
	Output:      "stdout",
	ServiceName: "agent-gateway",
	Environment: "development",
}

// Init initializes the global logger
func Init(config Config) error {
	var output *os.File
	var err error

	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		output, err = os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", config.Output, err)
		}
	}

	opts := &slog.HandlerOptions{
		Level: config.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			case slog.MessageKey:
				return slog.String("message", a.Value.String())
			}
			return a
		},
	}

	var handler slog.Handler
	switch config.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	Logger = slog.New(handler).With(
		"service", config.ServiceName,
		"environment", config.Environment,
	)
	return nil
}

// InitFromEnv initializes the global logger from environment variables
func InitFromEnv() error {
	config := DefaultConfig

	switch utils.GetLogLevel() {
	case "debug":
		config.Level = LevelDebug
	case "info":
		config.Level = LevelInfo
	case "warn":
		config.Level = LevelWarn
	case "error":
		config.Level = LevelError
	}

	config.Format = utils.GetEnvString("LOG_FORMAT", "json")
	config.Output = utils.GetEnvString("LOG_OUTPUT", "stdout")
	config.Environment = utils.GetEnvString("ENVIRONMENT", "development")

	return Init(config)
}

// get returns the global logger, initializing a default one if needed
func get() *slog.Logger {
	if Logger == nil {
		if err := Init(DefaultConfig); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: failed to initialize default logger: %v\n", err)
			return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelDebug}))
		}
	}
	return Logger
}

// Convenience functions for different log levels
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Context-aware convenience functions
func DebugCtx(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, appendContextValues(ctx, args)...)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	get().InfoContext(ctx, msg, appendContextValues(ctx, args)...)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	get().WarnContext(ctx, msg, appendContextValues(ctx, args)...)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	get().ErrorContext(ctx, msg, appendContextValues(ctx, args)...)
}

// appendContextValues extracts tracking values from the context into the args slice
func appendContextValues(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		args = append(args, "request_id", requestID)
	}
	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		args = append(args, "session_id", sessionID)
	}
	if agent := ctx.Value(AgentKey); agent != nil {
		args = append(args, "agent", agent)
	}
	if model := ctx.Value(ModelKey); model != nil {
		args = append(args, "model", model)
	}

	return args
}
