package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger returns a JSON logger writing to logFile, or a console
// logger on stderr when logFile is empty or cannot be opened.
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		level = zerolog.InfoLevel
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return zerolog.New(f).Level(level).With().Timestamp().Logger()
		}
		fmt.Fprintf(os.Stderr, "Failed to open log file, logging to stderr: %v\n", err)
	}

	// Pretty console output on stderr
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// lastfmLogger adapts zerolog to the lastfm.Logger interface.
type lastfmLogger struct {
	logger zerolog.Logger
}

func (l lastfmLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
