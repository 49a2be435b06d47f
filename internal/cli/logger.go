package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"dinnerbell/internal/config"
)

// newLogger builds the root logger: console output in development, JSON
// otherwise.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "dinnerbell").Logger()
}
