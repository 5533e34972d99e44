package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Options selects the logrus level, formatter and destination
type Options struct {
	Level  string
	Format string // text or json
	Output io.Writer
}

// Init configures the standard logrus logger and redirects the standard log
// package (used by goose) into it.
func Init(opts Options) error {
	level, err := log.ParseLevel(strings.TrimSpace(opts.Level))
	if opts.Level == "" {
		level, err = log.InfoLevel, nil
	}
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	formatter, err := newFormatter(opts.Format)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	log.SetLevel(level)
	log.SetFormatter(formatter)
	log.SetOutput(out)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.StandardLogger().WriterLevel(log.InfoLevel))
	return nil
}

func newFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return &log.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &log.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", format)
	}
}
