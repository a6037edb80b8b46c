package editor

import (
	"context"
	"io"
	"log/slog"

	"github.com/hazyhaar/domedit/editor/internal/sink"
)

// Re-exports so callers wire broadcast sinks without importing the
// internal package.

// Sink receives state broadcast events.
type Sink = sink.Sink

// SinkEvent is one broadcast envelope.
type SinkEvent = sink.Event

// NewStdoutSink emits one JSON line per event on stdout.
func NewStdoutSink() Sink { return sink.NewStdout() }

// NewWriterSink emits one JSON line per event to w.
func NewWriterSink(w io.Writer) Sink { return sink.NewWriter(w) }

// NewWebhookSink POSTs events to a URL with retry and backoff.
func NewWebhookSink(url string) Sink { return sink.NewWebhook(url) }

// NewCallbackSink delivers events to an in-process function.
func NewCallbackSink(fn func(ctx context.Context, ev SinkEvent) error) Sink {
	return sink.NewCallback(fn)
}

// NewSinkRouter fans events out to all given sinks.
func NewSinkRouter(logger *slog.Logger, sinks ...Sink) Sink {
	return sink.NewRouter(logger, sinks...)
}
