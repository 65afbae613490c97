package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"qaboard/pkg/utils/contextkey"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *Logger

// Logger wraps zap logger with context support
type Logger struct {
	zap *zap.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string `yaml:"level"`      // debug, info, warn, error
	Format     string `yaml:"format"`     // json, console
	OutputPath string `yaml:"outputPath"` // file path or "stdout"
	ErrorPath  string `yaml:"errorPath"`  // internal zap errors, file path or "stderr"
}

// Init initializes the global logger
func Init(cfg Config) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// SetLogger replaces the global logger, mainly for tests.
func SetLogger(l *zap.Logger) {
	if l == nil {
		globalLogger = nil
		return
	}
	globalLogger = &Logger{zap: l}
}

// NewLogger creates a new logger instance
func NewLogger(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    "func",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	writeSyncer, err := openSink(cfg.OutputPath, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	errorSyncer, err := openSink(cfg.ErrorPath, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log file: %w", err)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(errorSyncer),
	)

	return &Logger{zap: zapLogger}, nil
}

func openSink(path string, fallback *os.File) (zapcore.WriteSyncer, error) {
	switch path {
	case "":
		return zapcore.AddSync(fallback), nil
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

// customTimeEncoder formats time in RFC3339 format
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// WithContext returns a logger carrying the request fields found in ctx.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.zap
	}
	return l.zap.With(extractFieldsFromContext(ctx)...)
}

func extractFieldsFromContext(ctx context.Context) []zap.Field {
	var fields []zap.Field

	if traceID := ctx.Value(contextkey.TraceID); traceID != nil {
		fields = append(fields, zap.String("trace_id", fmt.Sprint(traceID)))
	}
	if requestID := ctx.Value(contextkey.RequestID); requestID != nil {
		fields = append(fields, zap.String("request_id", fmt.Sprint(requestID)))
	}
	if viewID := ctx.Value(contextkey.ViewID); viewID != nil {
		fields = append(fields, zap.String("view_id", fmt.Sprint(viewID)))
	}

	return fields
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Debug(msg, fields...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Info(msg, fields...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Warn(msg, fields...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Error(msg, fields...)
}

// Sync flushes the global logger
func Sync() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}
