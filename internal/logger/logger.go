package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger.
var Log zerolog.Logger

func init() {
	Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}

// Setup writes JSON in production and a console format everywhere else.
func Setup(env, level string) {
	Log = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()

	if env != "production" {
		Log = Log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	Log = Log.Level(lvl)
}
