// Package cli implements the chartlayout command-line interface.
//
// This package provides commands for planning chart label layouts from JSON
// requests, quick axis and legend experiments, running the HTTP service and
// managing the layout cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - plan: Lay out every chart in a request file
//   - axis: Decide thinning and rotation for a list of tick labels
//   - legend: Wrap legend categories and report the reserved margin
//   - serve: Run the HTTP layout service
//   - fonts: List the registered font families
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline and cache event.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Planned 12 charts (4ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Verbose Hooks
// =============================================================================

// logHooks writes pipeline and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutStart(_ context.Context, kind string, items int) {
	h.logger.Debug("layout start", "kind", kind, "items", items)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, kind string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "kind", kind, "error", err)
		return
	}
	h.logger.Debug("layout done", "kind", kind, "duration", d)
}

func (h *logHooks) OnBatchComplete(_ context.Context, charts int, d time.Duration, err error) {
	h.logger.Debug("batch done", "charts", charts, "duration", d, "error", err)
}

func (h *logHooks) OnOverlap(_ context.Context, chart string, labels int) {
	h.logger.Debug("outside labels overlap", "chart", chart, "labels", labels)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.logger.Debug("cache error", "type", keyType, "error", err)
}
