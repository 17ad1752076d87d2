// Package internal holds small cross-cutting helpers shared by the command
// line front-end.
package internal

import (
	"log"
	"os"
)

// LogLevel orders logging verbosity.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides leveled logging on top of the standard logger.
type Logger struct {
	level LogLevel
}

// NewLogger creates a logger with the given level.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads WRANGLE_LOG_LEVEL, defaulting to warnings only so
// library diagnostics stay the primary reporting channel.
func NewDefaultLogger() *Logger {
	level := LogLevelWarn
	switch os.Getenv("WRANGLE_LOG_LEVEL") {
	case "ERROR":
		level = LogLevelError
	case "INFO":
		level = LogLevelInfo
	case "DEBUG":
		level = LogLevelDebug
	}
	return &Logger{level: level}
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// SetLevel adjusts verbosity after construction.
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}
