package editor

import (
	"context"
	"time"

	"github.com/hazyhaar/domedit/editor/internal/sink"
)

// broadcastLocked emits the current editor state to the configured
// sink. Best effort: no sink, or a sink failure, is logged and never
// surfaces to the operation that triggered the broadcast.
func (e *Editor) broadcastLocked(ctx context.Context) {
	if e.cfg.Sink == nil {
		return
	}

	ev := sink.Event{
		Type: "state_updated",
		At:   time.Now(),
		Data: e.stateLocked(ctx),
	}
	if err := e.cfg.Sink.Send(ctx, ev); err != nil {
		e.log.Warn("editor: state broadcast failed", "error", err)
	}
}
