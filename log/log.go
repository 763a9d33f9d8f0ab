// Package log is the driver's leveled logging facade. The API mirrors the
// classic Trace/Info/Error trio; output goes through zerolog so embedding
// applications get structured records on stderr.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	NoneLevel LogLevel = iota
	ErrorLevel
	InfoLevel
	TraceLevel
)

var (
	// Level gates all output. Defaults to silent; applications opt in.
	Level = NoneLevel

	logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "bolt").Logger()
)

// SetLevel sets the output level from a string, matching case-insensitively.
// Unrecognized values silence the log.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		Level = TraceLevel
	case "info":
		Level = InfoLevel
	case "error":
		Level = ErrorLevel
	default:
		Level = NoneLevel
	}
}

// SetOutput redirects log output, e.g. to a file or test buffer.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

func Trace(args ...interface{}) {
	if Level >= TraceLevel {
		logger.Trace().Msgf(strings.TrimSuffix(strings.Repeat("%v ", len(args)), " "), args...)
	}
}

func Tracef(msg string, args ...interface{}) {
	if Level >= TraceLevel {
		logger.Trace().Msgf(msg, args...)
	}
}

func Info(args ...interface{}) {
	if Level >= InfoLevel {
		logger.Info().Msgf(strings.TrimSuffix(strings.Repeat("%v ", len(args)), " "), args...)
	}
}

func Infof(msg string, args ...interface{}) {
	if Level >= InfoLevel {
		logger.Info().Msgf(msg, args...)
	}
}

func Error(args ...interface{}) {
	if Level >= ErrorLevel {
		logger.Error().Msgf(strings.TrimSuffix(strings.Repeat("%v ", len(args)), " "), args...)
	}
}

func Errorf(msg string, args ...interface{}) {
	if Level >= ErrorLevel {
		logger.Error().Msgf(msg, args...)
	}
}

// With returns the underlying zerolog logger with an extra string field,
// for callers that want per-object correlation (e.g. session ids).
func With(key, val string) zerolog.Logger {
	return logger.With().Str(key, val).Logger()
}
