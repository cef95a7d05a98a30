// Package logging provides the structured logger used across the server.
// It is a thin facade over zap so call sites stay decoupled from the
// logging backend.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a set of key/value pairs attached to a single log entry.
type Field struct {
	fields []zap.Field
}

// WithField attaches a single key/value pair to a log entry.
func WithField(key string, value interface{}) Field {
	return Field{fields: []zap.Field{zap.Any(key, value)}}
}

// WithFields attaches multiple key/value pairs to a log entry.
func WithFields(m map[string]interface{}) Field {
	fields := make([]zap.Field, 0, len(m))
	for k, v := range m {
		fields = append(fields, zap.Any(k, v))
	}
	return Field{fields: fields}
}

// Logger is the application logger.
type Logger struct {
	z *zap.Logger
}

// New creates a logger writing JSON lines to stdout at the given level.
func New(level Level) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		zapLevel(level),
	)
	return &Logger{z: zap.New(core)}
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func flatten(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.fields...)
	}
	return out
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, flatten(fields)...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.z.Info(msg, flatten(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, flatten(fields)...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.z.Error(msg, flatten(fields)...)
}

// Sync flushes buffered entries. Safe to call at shutdown.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
