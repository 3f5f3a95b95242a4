package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger and adds context-aware helpers.
type Logger struct {
	*zap.Logger
}

type ctxFieldsKey struct{}

// New creates a logger writing to stderr with the given level and encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	return NewWithOutput(level, encoding, "stderr")
}

// NewWithOutput creates a logger writing to the given output paths.
func NewWithOutput(level, encoding string, outputPaths ...string) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	if encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.Encoding = "console"
	} else {
		cfg.Encoding = "json"
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(outputPaths) > 0 {
		cfg.OutputPaths = outputPaths
		cfg.ErrorOutputPaths = outputPaths
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: l}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithFields returns a copy of ctx carrying fields that every *Context log call will include.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing := FieldsFromContext(ctx)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

// FieldsFromContext returns the fields attached with WithFields.
func FieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	return fields
}

func (l *Logger) withContext(ctx context.Context, fields []zap.Field) []zap.Field {
	ctxFields := FieldsFromContext(ctx)
	if len(ctxFields) == 0 {
		return fields
	}
	return append(append(make([]zap.Field, 0, len(ctxFields)+len(fields)), ctxFields...), fields...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Debug(msg, l.withContext(ctx, fields)...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Info(msg, l.withContext(ctx, fields)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Warn(msg, l.withContext(ctx, fields)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Error(msg, l.withContext(ctx, fields)...)
}

func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Uint64Field(key string, value uint64) zap.Field {
	return zap.Uint64(key, value)
}

func ErrorField(err error) zap.Field {
	return zap.Error(err)
}
