// Package sink defines output backends for editor state broadcasts.
package sink

import (
	"context"
	"time"
)

// Event is one broadcast envelope. Payload carries the serialized editor
// state (or another event body); Type names the event for consumers.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// Sink is the output interface. Implementations deliver events to
// different backends (stdout, webhook, in-process callback).
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}
