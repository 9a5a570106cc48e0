package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the global logger output.
type Options struct {
	Level  string
	Format string // console or json
	Out    io.Writer
	Tee    io.Writer
}

// Setup configures the global zerolog logger and returns the effective level.
func Setup(opts Options) zerolog.Level {
	zerolog.TimeFieldFormat = time.RFC3339

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var w io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	if opts.Tee != nil {
		w = zerolog.MultiLevelWriter(w, opts.Tee)
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		if opts.Level != "" {
			log.Warn().Str("level", opts.Level).Msg("Invalid log level, using info")
		}
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}
