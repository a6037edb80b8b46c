package observability

import (
	"context"
	"encoding/json"

	"github.com/hazyhaar/domedit/editor"
)

// AuditSink bridges editor state broadcasts into the audit trail, so
// wiring it into the editor's sink router records every state change.
type AuditSink struct {
	logger  *EventLogger
	pageURL string
}

// NewAuditSink creates a sink recording broadcasts against pageURL.
func NewAuditSink(logger *EventLogger, pageURL string) *AuditSink {
	return &AuditSink{logger: logger, pageURL: pageURL}
}

func (s *AuditSink) Send(_ context.Context, ev editor.SinkEvent) error {
	rec := Event{
		At:      ev.At,
		Source:  SourceEditor,
		Kind:    ev.Type,
		PageURL: s.pageURL,
	}
	if st, ok := ev.Data.(editor.EditorState); ok && st.Descriptor != nil {
		rec.Descriptor = *st.Descriptor
	}
	if ev.Data != nil {
		if b, err := json.Marshal(ev.Data); err == nil {
			rec.Detail = string(b)
		}
	}
	s.logger.Record(rec)
	return nil
}

// Close is a no-op; the EventLogger's lifecycle belongs to its owner.
func (s *AuditSink) Close() error { return nil }
