package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const appName = "df-boss-monitor"

// New builds the process logger. The effective level is set globally by config.Load.
func New() zerolog.Logger {
	return NewWithWriter(os.Stdout)
}

func NewWithWriter(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("app", appName).
		Logger().
		Level(zerolog.DebugLevel)
}

// Named returns a child logger tagged with the component name.
func Named(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

var Module = fx.Provide(New)
