// Package logger provides logging for the eco-ui panel with dual backends
// (console and file).
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"eco-ui/config"

	"github.com/op/go-logging"
)

const (
	logFileName = "eco-ui.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	logger  *logging.Logger
	logFile *os.File
)

// InitLogger initializes the console backend with the given level and a file
// backend that always logs at DEBUG.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger("eco-ui")
	backends := make([]logging.Backend, 0, 2)

	consoleBackend := logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true))
	leveledConsole := logging.AddModuleLevel(consoleBackend)
	leveledConsole.SetLevel(level, "eco-ui")
	backends = append(backends, leveledConsole)

	if fileBackend := initFileBackend(); fileBackend != nil {
		leveledFile := logging.AddModuleLevel(fileBackend)
		leveledFile.SetLevel(logging.DEBUG, "eco-ui")
		backends = append(backends, leveledFile)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

func initFileBackend() logging.Backend {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	backend := logging.NewLogBackend(file, "", 0)
	return logging.NewBackendFormatter(backend, newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger closes the log file. Should be called during shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func ensure() *logging.Logger {
	if logger == nil {
		InitLogger(logging.INFO)
	}
	return logger
}

func Debug(args ...any) {
	ensure().Debug(args...)
}

func Debugf(format string, args ...any) {
	ensure().Debugf(format, args...)
}

func Info(args ...any) {
	ensure().Info(args...)
}

func Infof(format string, args ...any) {
	ensure().Infof(format, args...)
}

func Warning(args ...any) {
	ensure().Warning(args...)
}

func Warningf(format string, args ...any) {
	ensure().Warningf(format, args...)
}

func Error(args ...any) {
	ensure().Error(args...)
}

func Errorf(format string, args ...any) {
	ensure().Errorf(format, args...)
}
