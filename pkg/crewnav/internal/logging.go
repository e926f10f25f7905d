package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logFile *os.File
	logPath string

	setupOnce sync.Once
	logWriter io.Writer

	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   *slog.LevelVar

	internalLoggerOnce sync.Once
	internalLogger     *slog.Logger
	internalLevelVar   *slog.LevelVar
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories. Call before the first logger
// use to take effect.
func SetLogPath(path string) {
	logPath = path
}

func setup() {
	setupOnce.Do(func() {
		if logPath == "" {
			logWriter = os.Stdout
			return
		}

		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			logWriter = os.Stdout
			return
		}

		var err error
		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			// Can't open log file, fall back to console-only
			logWriter = os.Stdout
			return
		}

		logWriter = io.MultiWriter(os.Stdout, logFile)
	})
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		levelVar = &slog.LevelVar{}

		setup()

		logger = slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
			Level: levelVar,
		}))
	})
	return logger
}

// GetInternalLogger returns the logger used by the engine itself.
// It shares the output with the application logger but has its own level,
// so engine diagnostics can be silenced independently.
func GetInternalLogger() *slog.Logger {
	internalLoggerOnce.Do(func() {
		internalLevelVar = &slog.LevelVar{}
		internalLevelVar.Set(slog.LevelError)

		setup()

		internalLogger = slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
			Level: internalLevelVar,
		}))
	})
	return internalLogger
}

func SetLogLevel(level slog.Level) {
	GetLogger()
	levelVar.Set(level)
}

func SetInternalLogLevel(level slog.Level) {
	GetInternalLogger()
	internalLevelVar.Set(level)
}

// SetRawLogLevel parses and sets the application log level from a string.
// Unknown values fall back to info.
func SetRawLogLevel(rawLevel string) {
	var level slog.Level

	switch strings.ToLower(rawLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	SetLogLevel(level)
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
