/*
file: respkv/internal/logging/logger.go
*/
package logging

// logger.go contains logging utilities for the server. It supports
// different log levels and formats log messages consistently across
// the application, the way the teacher's common.Logger does, adapted
// down to the levels this server actually emits.

import (
	"log"
	"os"
)

const (
	infoLevel  = "INFO"
	warnLevel  = "WARN"
	errorLevel = "ERROR"
)

// Logger is a level-tagged wrapper around the standard library
// logger. Each level writes to stderr with its own prefix so log
// output can be grepped by severity without a structured-logging
// dependency the teacher's own stack doesn't carry either.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

// New initializes and returns a new Logger instance.
func New() *Logger {
	return &Logger{
		info:  log.New(os.Stderr, "[INFO]  ", log.Ldate|log.Ltime),
		warn:  log.New(os.Stderr, "[WARN]  ", log.Ldate|log.Ltime),
		error: log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime),
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.printf(infoLevel, format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.printf(warnLevel, format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.printf(errorLevel, format, v...)
}

func (l *Logger) printf(level, format string, v ...interface{}) {
	switch level {
	case infoLevel:
		l.info.Printf(format, v...)
	case warnLevel:
		l.warn.Printf(format, v...)
	case errorLevel:
		l.error.Printf(format, v...)
	}
}
