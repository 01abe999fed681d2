// Package cli implements the poolkit command-line interface.
//
// Commands read pool documents (JSON or TOML), compute their layout and
// print or write the result:
//
//   - layout: write the computed geometry as a .layout.json file
//   - render: write SVG, PNG, PDF, DOT or lane tree output
//   - query, path: hit-test points and look up lane geometry
//   - tree, inspect: show the lane hierarchy as a table or interactively
//   - convert: translate between JSON and TOML
//   - serve: run the HTTP API
//   - cache: manage the layout cache
//
// Diagnostics go through a charmbracelet/log logger that travels in the
// command context; --verbose lowers its level to debug.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// startTimer returns a func that logs msg at info level with the time
// elapsed since startTimer was called.
func startTimer(l *log.Logger) func(msg string, keyvals ...any) {
	start := time.Now()
	return func(msg string, keyvals ...any) {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Info(msg, append(keyvals, "elapsed", elapsed)...)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return l
}
