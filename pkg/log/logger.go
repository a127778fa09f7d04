// Package log provides named, leveled loggers that share one output sink.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a logging verbosity
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module:-8s} %{level:.4s}%{color:reset} %{message}`,
)

var leveled logging.LeveledBackend

// Logger is the logging surface used across the renderer
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns the logger for module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects every logger to w, keeping the current level
func SetSink(w io.Writer) {
	level := logging.NOTICE
	if leveled != nil {
		level = leveled.GetLevel("")
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled = logging.AddModuleLevel(backend)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// SetLevel sets the verbosity of every logger
func SetLevel(level Level) {
	leveled.SetLevel(toLogging(level), "")
}

// ParseLevel maps a level name such as "debug" or "warning" to a Level
func ParseLevel(name string) (Level, error) {
	l, err := logging.LogLevel(name)
	if err != nil {
		return Notice, err
	}
	switch l {
	case logging.DEBUG:
		return Debug, nil
	case logging.INFO:
		return Info, nil
	case logging.WARNING:
		return Warning, nil
	case logging.ERROR, logging.CRITICAL:
		return Error, nil
	default:
		return Notice, nil
	}
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}
