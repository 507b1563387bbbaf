// Package log provides structured diagnostic logging with session context.
//
// This is the operational log (JSON lines on stderr), distinct from the
// session log artifact the report package writes at the end of a run.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the session runner (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces (convenience over performance)
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/justapithecus/hilt/types"
)

// Logger provides structured logging with session context.
// All log entries carry the session identity fields (session_id, cmd).
type Logger struct {
	zap       *zap.Logger
	sessionID string
	task      types.Task
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger scoped to one labeling session.
// Output defaults to os.Stderr.
func NewLogger(sessionID string, task types.Task) *Logger {
	return newLoggerWithWriter(sessionID, task, os.Stderr)
}

// WithOutput returns a new logger with a different output writer.
// The session identity fields carry over to the new logger.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return newLoggerWithWriter(l.sessionID, l.task, w)
}

func newLoggerWithWriter(sessionID string, task types.Task, w io.Writer) *Logger {
	contextFields := []zap.Field{
		zap.String("session_id", sessionID),
		zap.String("cmd", string(task)),
	}
	return &Logger{
		zap:       zap.New(newCore(w)).With(contextFields...),
		sessionID: sessionID,
		task:      task,
	}
}

func newCore(w io.Writer) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.InfoLevel,
	)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zapFields(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zapFields(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zapFields(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zapFields(fields)...)
}

// zapFields flattens a field map into top-level zap fields, sorted for
// stable output.
func zapFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, len(keys))
	for i, k := range keys {
		fields[i] = zap.Any(k, m[k])
	}
	return fields
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
