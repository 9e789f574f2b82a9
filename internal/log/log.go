// Package log provides structured, colored logging for nametrade.
//
// Offers are printed on stdout, so every logger writes to stderr.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// logFile is the file opened by the last Init, if any.
var logFile *os.File

// Component loggers for different parts of the system.
var (
	Gateway zerolog.Logger
	Trade   zerolog.Logger
	CLI     zerolog.Logger
	Config  zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "warn")
	initComponentLoggers()
}

// Init initializes the logger with the given configuration.
// When file is non-empty, logs are written to both the console (colored or
// JSON depending on jsonOutput) and the file (always JSON for machine parsing).
// A file opened by an earlier Init is closed.
func Init(level string, jsonOutput bool, file string) error {
	var f *os.File
	if file != "" {
		var err error
		f, err = os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
	}
	prev := logFile
	logFile = f

	if f != nil {
		var consoleWriter io.Writer
		if jsonOutput {
			consoleWriter = os.Stderr
		} else {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "15:04:05",
			}
		}

		multi := zerolog.MultiLevelWriter(consoleWriter, f)
		Logger = zerolog.New(multi).
			Level(ParseLevel(level)).
			With().
			Timestamp().
			Logger()
	} else if jsonOutput {
		Logger = NewJSONLogger(os.Stderr, level)
	} else {
		Logger = NewConsoleLogger(os.Stderr, level)
	}

	initComponentLoggers()
	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close switches logging back to stderr at the current level and closes the
// log file opened by Init. It is a no-op when no file is open.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	Logger = NewConsoleLogger(os.Stderr, Logger.GetLevel().String())
	initComponentLoggers()
	return f.Close()
}

// SetOutput replaces the global logger with a JSON logger writing to w.
// Tests use it to capture log output.
func SetOutput(w io.Writer, level string) {
	Logger = NewJSONLogger(w, level)
	initComponentLoggers()
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a string level to zerolog.Level. Unknown levels
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	Gateway = Logger.With().Str("component", "gateway").Logger()
	Trade = Logger.With().Str("component", "trade").Logger()
	CLI = Logger.With().Str("component", "cli").Logger()
	Config = Logger.With().Str("component", "config").Logger()
}
