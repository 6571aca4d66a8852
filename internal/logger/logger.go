// Package logger is the host-side structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	logFile *os.File
	logger  zerolog.Logger
)

func init() {
	initLogger()
}

func initLogger() {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: "15:04:05.000",
		NoColor:    output != io.Writer(os.Stderr),
	}
	logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
}

// SetOutput redirects log output. Host stream data goes to stdout, so logs
// default to stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	initLogger()
}

// SetOutputFile appends log output to filename, creating its directory.
func SetOutputFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	logFile = f
	output = f
	initLogger()
	return nil
}

// CloseLogFile closes the log file if one is open and reverts to stderr.
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		output = os.Stderr
		initLogger()
	}
}

// SetLevel sets the global log level by name; unknown names select info.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// DebugEnabled reports whether debug lines are emitted.
func DebugEnabled() bool {
	return zerolog.GlobalLevel() <= zerolog.DebugLevel
}

func get() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := logger
	return &l
}

func Debug(msg string) { get().Debug().Msg(msg) }

func Debugf(format string, v ...interface{}) { get().Debug().Msgf(format, v...) }

func Info(msg string) { get().Info().Msg(msg) }

func Infof(format string, v ...interface{}) { get().Info().Msgf(format, v...) }

func Warn(msg string) { get().Warn().Msg(msg) }

func Warnf(format string, v ...interface{}) { get().Warn().Msgf(format, v...) }

// Error logs msg with err attached.
func Error(msg string, err error) { get().Error().Err(err).Msg(msg) }

// Errorf logs a formatted message with err attached.
func Errorf(format string, err error, v ...interface{}) {
	get().Error().Err(err).Msgf(format, v...)
}

// Line is a hal.Logger that writes each line at info level with a component
// field.
type Line struct {
	Component string
}

func (l Line) WriteLineString(s string) {
	get().Info().Str("component", l.Component).Msg(s)
}

func (l Line) WriteLineBytes(b []byte) {
	get().Info().Str("component", l.Component).Msg(string(b))
}
