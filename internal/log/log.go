// Package log configures structured logging for windatlas using log/slog.
package log

import (
	"io"
	"log/slog"
)

// Options selects the log level and encoding.
type Options struct {
	Verbose bool
	Quiet   bool
	// JSON switches to slog.JSONHandler, for the server behind a log shipper.
	JSON bool
}

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
func (o Options) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelWarn
	case o.Verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default slog logger writing to w, normally stderr.
func Setup(w io.Writer, o Options) {
	hopts := &slog.HandlerOptions{Level: o.Level()}

	var handler slog.Handler
	if o.JSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}
	slog.SetDefault(slog.New(handler))
}
