package ldap

import (
	"errors"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"
)

// Logger interface for directory operations.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Trace(msg string, fields map[string]any)
}

// LogrusLogger adapts a logrus.FieldLogger to Logger.
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrusLogger wraps logger. Fields are sanitized before they are emitted.
func NewLogrusLogger(logger logrus.FieldLogger) *LogrusLogger {
	return &LogrusLogger{logger: logger}
}

// NewDefaultLogger returns a text logger on stderr at the given level.
func NewDefaultLogger(level string) (*LogrusLogger, error) {
	return newLogger(os.Stderr, level)
}

func newLogger(out io.Writer, level string) (*LogrusLogger, error) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return NewLogrusLogger(&logrus.Logger{
		Out:       out,
		Formatter: &logrus.TextFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logLevel,
	}), nil
}

func (l *LogrusLogger) with(fields map[string]any) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.logger
	}
	return l.logger.WithFields(logrus.Fields(SanitizeFields(fields)))
}

func (l *LogrusLogger) Debug(msg string, fields map[string]any) { l.with(fields).Debug(msg) }
func (l *LogrusLogger) Info(msg string, fields map[string]any)  { l.with(fields).Info(msg) }
func (l *LogrusLogger) Warn(msg string, fields map[string]any)  { l.with(fields).Warn(msg) }
func (l *LogrusLogger) Error(msg string, fields map[string]any) { l.with(fields).Error(msg) }

func (l *LogrusLogger) Trace(msg string, fields map[string]any) {
	// FieldLogger has no Trace; fall back to Debug for non-*Logger implementations.
	switch lg := l.with(fields).(type) {
	case *logrus.Entry:
		lg.Trace(msg)
	case *logrus.Logger:
		lg.Trace(msg)
	default:
		lg.Debug(msg)
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, map[string]any) {}
func (discardLogger) Info(string, map[string]any)  {}
func (discardLogger) Warn(string, map[string]any)  {}
func (discardLogger) Error(string, map[string]any) {}
func (discardLogger) Trace(string, map[string]any) {}

// LogOperation is a helper function to log an operation with timing.
func LogOperation(logger Logger, operation string, fields map[string]any, fn func() error) error {
	start := time.Now()

	logFields := make(map[string]any, len(fields)+3)
	maps.Copy(logFields, fields)
	logFields["operation"] = operation

	logger.Debug("Starting operation", logFields)

	err := fn()

	logFields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		LogLDAPError(logger, operation, err, logFields)
	} else {
		logger.Debug("Operation completed successfully", logFields)
	}

	return err
}

// LogLDAPError logs directory-specific error information.
func LogLDAPError(logger Logger, operation string, err error, fields map[string]any) {
	logFields := make(map[string]any, len(fields)+4)
	maps.Copy(logFields, fields)
	logFields["operation"] = operation
	logFields["error"] = err.Error()

	var resultErr *ldap.Error
	if errors.As(err, &resultErr) {
		logFields["ldap_result_code"] = resultErr.ResultCode
		if resultErr.MatchedDN != "" {
			logFields["ldap_matched_dn"] = resultErr.MatchedDN
		}
	}

	logger.Error("LDAP operation failed", logFields)
}

// SanitizeFields removes sensitive information from log fields.
func SanitizeFields(fields map[string]any) map[string]any {
	sanitized := make(map[string]any, len(fields))

	sensitiveKeys := map[string]bool{
		"password":     true,
		"passwd":       true,
		"secret":       true,
		"credential":   true,
		"credentials":  true,
		"userpassword": true,
	}

	for k, v := range fields {
		if sensitiveKeys[strings.ToLower(k)] {
			sanitized[k] = "[REDACTED]"
			continue
		}
		if str, ok := v.(string); ok && containsSensitivePattern(str) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		sanitized[k] = v
	}

	return sanitized
}

func containsSensitivePattern(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range []string{"password=", "passwd=", "secret=", "userpassword="} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
