package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger and installs it as the global one.
func (c *Config) NewLogger(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	w := out
	if c.LogFormat != "json" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
	log.Logger = l
	return l
}
