// Package logging builds zerolog loggers from command line settings.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ErrUnknownFormat is returned for formats other than console and json.
var ErrUnknownFormat = errors.New("unknown log format")

// New creates a logger writing to w. Level is a zerolog level name; an empty
// level means info. Format is console or json.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case FormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
