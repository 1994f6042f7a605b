// Package cli implements the bargroup command-line interface.
//
// # Commands
//
//   - render: lay out a chart file and write SVG, PNG, PDF, JSON or terminal output
//   - preview: interactive terminal preview that relayouts on resize and edits
//   - serve: HTTP render service
//   - init: write an example chart file
//   - cache: inspect or clear the render cache
//
// Every command accepts --verbose (-v) for debug logging. The logger travels
// to subcommands through the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 artifacts (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, falling back
// to log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
