package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/domedit/dbopen"
	"github.com/hazyhaar/domedit/editor"

	_ "modernc.org/sqlite"
)

func testLogger(t *testing.T) *EventLogger {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return New(db)
}

func TestEventLogger_RecordFlushQuery(t *testing.T) {
	l := testLogger(t)
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	l.Record(Event{At: base, Source: SourceEditor, Kind: "state_updated", Descriptor: "div#a"})
	l.Record(Event{At: base.Add(time.Second), Source: SourceEditor, Kind: "layout_saved", PageURL: "https://x.com/"})
	l.Record(Event{At: base.Add(2 * time.Second), Source: SourceStrategy, Kind: "run", ErrorMsg: "boom"})

	// Close drains and flushes; the db handle stays usable.
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	all, err := l.Query(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	// Newest first.
	if all[0].Kind != "run" || all[2].Kind != "state_updated" {
		t.Errorf("order: %s, %s, %s", all[0].Kind, all[1].Kind, all[2].Kind)
	}
	if all[0].ErrorMsg != "boom" {
		t.Errorf("error message: %q", all[0].ErrorMsg)
	}
	if !all[2].At.Equal(base) {
		t.Errorf("at: got %v, want %v", all[2].At, base)
	}

	editorOnly, err := l.Query(ctx, Filter{Source: SourceEditor})
	if err != nil {
		t.Fatal(err)
	}
	if len(editorOnly) != 2 {
		t.Errorf("source filter: got %d, want 2", len(editorOnly))
	}

	saved, err := l.Query(ctx, Filter{Kind: "layout_saved"})
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].PageURL != "https://x.com/" {
		t.Errorf("kind filter: %+v", saved)
	}

	limited, err := l.Query(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d, want 1", len(limited))
	}
}

func TestEventLogger_RecordOp(t *testing.T) {
	l := testLogger(t)

	l.RecordOp(SourceStrategy, "plan", "https://x.com/", "", map[string]int{"steps": 3}, nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := l.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if !strings.Contains(got[0].Detail, `"steps":3`) {
		t.Errorf("detail: %q", got[0].Detail)
	}
	if got[0].EventID == "" || got[0].At.IsZero() {
		t.Errorf("defaults not filled: %+v", got[0])
	}
}

func TestEventLogger_Cleanup(t *testing.T) {
	l := testLogger(t)
	ctx := context.Background()

	l.Record(Event{At: time.Now().Add(-48 * time.Hour), Source: SourceEditor, Kind: "old"})
	l.Record(Event{Source: SourceEditor, Kind: "fresh"})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	removed, err := l.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed %d, want 1", removed)
	}

	left, err := l.Query(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Kind != "fresh" {
		t.Errorf("remaining: %+v", left)
	}
}

func TestAuditSink_RecordsBroadcasts(t *testing.T) {
	l := testLogger(t)
	s := NewAuditSink(l, "https://x.com/page")

	desc := "div#hero.banner"
	ev := editor.SinkEvent{
		Type: "state_updated",
		At:   time.Now(),
		Data: editor.EditorState{Active: true, Descriptor: &desc, Theme: "dark"},
	}
	if err := s.Send(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := l.Query(context.Background(), Filter{Source: SourceEditor})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Descriptor != desc || got[0].PageURL != "https://x.com/page" {
		t.Errorf("event: %+v", got[0])
	}
	if !strings.Contains(got[0].Detail, `"active":true`) {
		t.Errorf("detail: %q", got[0].Detail)
	}
}
