// Package logger owns the process-wide zerolog instance.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the global logger. Before New is called it falls back
// to a console logger at info level so early init paths can still log.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		globalLogger = zerolog.New(newWriter("console")).
			With().Timestamp().Logger().
			Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// New configures the global logger from the LOG_LEVEL and LOG_FORMAT
// settings and returns it.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	format = strings.ToLower(format)
	if format != "json" && format != "console" {
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = zerolog.New(newWriter(format)).
		With().Timestamp().Logger().
		Level(lvl)
	return globalLogger, nil
}

func newWriter(format string) io.Writer {
	if format == "json" {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
}
