package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStdout_LineJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	ev := Event{Type: "state_updated", At: time.Now(), Data: map[string]any{"active": true}}
	if err := s.Send(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	line := strings.TrimSpace(buf.String())
	var got Event
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Type != "state_updated" {
		t.Errorf("type: got %q", got.Type)
	}
}

func TestCallback(t *testing.T) {
	var seen []string
	cb := NewCallback(func(_ context.Context, ev Event) error {
		seen = append(seen, ev.Type)
		return nil
	})

	if err := cb.Send(context.Background(), Event{Type: "a"}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != "a" {
		t.Errorf("got %v", seen)
	}
}

func TestRouter_FanOutContinuesOnError(t *testing.T) {
	bad := NewCallback(func(context.Context, Event) error {
		return errors.New("boom")
	})
	var delivered int
	good := NewCallback(func(context.Context, Event) error {
		delivered++
		return nil
	})

	r := NewRouter(nil, bad, good)
	err := r.Send(context.Background(), Event{Type: "x"})
	if err == nil {
		t.Error("expected first error to surface")
	}
	if delivered != 1 {
		t.Errorf("good sink not reached: delivered=%d", delivered)
	}
}

func TestWebhook_RetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookRetries(3))
	if err := w.Send(context.Background(), Event{Type: "x"}); err != nil {
		t.Fatalf("expected success after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestWebhook_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookRetries(0))
	if err := w.Send(context.Background(), Event{Type: "x"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
