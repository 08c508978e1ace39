package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger provides structured-ish logging with fixed and per-call
// key-value fields. It wraps the standard library's log.Logger, with a
// With() helper so the orchestrator can tag every line of a request or
// batch job without repeating the fields at every call site.
type Logger struct {
	prefix string
	fixed  []interface{}
	logger *log.Logger
}

// NewLogger creates a new logger with a prefix
func NewLogger(prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		logger: log.New(os.Stdout, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// With returns a child logger carrying kv in addition to any fields
// already fixed on the receiver.
func (l *Logger) With(kv ...interface{}) *Logger {
	combined := make([]interface{}, 0, len(l.fixed)+len(kv))
	combined = append(combined, l.fixed...)
	combined = append(combined, kv...)
	return &Logger{prefix: l.prefix, fixed: combined, logger: l.logger}
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	all := make([]interface{}, 0, len(l.fixed)+len(keysAndValues))
	all = append(all, l.fixed...)
	all = append(all, keysAndValues...)

	kvStr := ""
	for i := 0; i < len(all); i += 2 {
		if i+1 < len(all) {
			kvStr += fmt.Sprintf(" %v=%v", all[i], all[i+1])
		}
	}
	l.logger.Printf("[%s] %s%s", level, msg, kvStr)
}
