package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fadedpez/hatbot/internal/types"
	"github.com/google/logger"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// String returns the level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level
func ParseLevel(name string) (Level, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level, nil
		}
	}
	if strings.EqualFold(name, "warning") {
		return WARN, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger is a leveled logger on top of google/logger
type Logger struct {
	backend *logger.Logger
	level   Level
}

// NewLogger creates a logger writing to stdout/stderr and, if non-nil, to logFile
func NewLogger(level Level, logFile io.Writer) *Logger {
	if logFile == nil {
		logFile = io.Discard
	}
	return &Logger{
		backend: logger.Init("hatbot", true, false, logFile),
		level:   level,
	}
}

// Level returns the minimum level that is logged
func (l *Logger) Level() Level {
	return l.level
}

// SetLevel changes the minimum level that is logged
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// formatMessage prefixes a message with the caller of the logging method
func (l *Logger) formatMessage(msg string) string {
	_, file, line, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	return fmt.Sprintf("%s: %s", caller, msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= DEBUG {
		l.backend.Info("[DEBUG] " + l.formatMessage(fmt.Sprintf(format, v...)))
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= INFO {
		l.backend.Info(l.formatMessage(fmt.Sprintf(format, v...)))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level <= WARN {
		l.backend.Warning(l.formatMessage(fmt.Sprintf(format, v...)))
	}
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level <= ERROR {
		l.backend.Error(l.formatMessage(fmt.Sprintf(format, v...)))
	}
}

// LogError logs an error, expanding HatError context
func (l *Logger) LogError(err error) {
	var hatErr *types.HatError
	if types.As(err, &hatErr) {
		context := []string{
			fmt.Sprintf("Code: %s", hatErr.Code),
			fmt.Sprintf("Message: %s", hatErr.Message),
		}
		if hatErr.Err != nil {
			context = append(context, fmt.Sprintf("Cause: %v", hatErr.Err))
		}

		l.Error("Hat error occurred:\n\t%s", strings.Join(context, "\n\t"))
	} else {
		l.Error("Unexpected error: %v", err)
	}
}

// Close flushes and closes the backend
func (l *Logger) Close() {
	l.backend.Close()
}

// Default logger instance
var Default = NewLogger(INFO, nil)
