package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var once sync.Once
var Log zerolog.Logger

func configureLogger(out io.Writer) {
	zerolog.TimeFieldFormat = timeFormat

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
	}

	Log = zerolog.New(output).With().Timestamp().Logger()
}

func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configureLogger(os.Stdout)
		zerolog.SetGlobalLevel(level)
	})
	return &Log
}

func GetLogger() *zerolog.Logger {
	once.Do(func() {
		configureLogger(os.Stdout)
	})
	return &Log
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}
