package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var debugEnabled atomic.Bool

// Logger writes levelled, timestamped lines tagged with a component name
type Logger struct {
	*log.Logger
	component string
}

// New creates a logger writing to stdout for the given component
func New(component string) *Logger {
	return NewWithWriter(os.Stdout, component)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, component string) *Logger {
	return &Logger{
		Logger:    log.New(w, "", 0),
		component: component,
	}
}

// With returns a copy of the logger tagged with another component
func (l *Logger) With(component string) *Logger {
	return &Logger{
		Logger:    l.Logger,
		component: component,
	}
}

func (l *Logger) formatMessage(level, format string, v ...interface{}) string {
	timestamp := time.Now().Format(time.RFC3339)
	message := fmt.Sprintf(format, v...)

	if l.component != "" {
		return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, l.component, message)
	}

	return fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("INFO", format, v...))
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("ERROR", format, v...))
}

// Debug logs a debug message when debug output is enabled
func (l *Logger) Debug(format string, v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	l.Logger.Println(l.formatMessage("DEBUG", format, v...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("WARN", format, v...))
}

// SetLevel enables debug output for level "debug" and disables it otherwise
func SetLevel(level string) {
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

// Global logger instance for application-wide logging
var Global = New("")

// SetGlobal sets the global logger
func SetGlobal(logger *Logger) {
	Global = logger
}
