// Package logger wires zerolog for the whole service. Handlers, the queue
// consumer and the middleware all log through a logger built here.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog.Logger with sane defaults for the service.
// In the dev environment logs go through the console writer at debug level;
// everywhere else they are emitted as JSON at info level.
func New(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "dev" {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()

	if env == "dev" {
		l = l.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return l
}
