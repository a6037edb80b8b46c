package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hazyhaar/domedit/dbopen"

	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return New(db)
}

func sample(id, domain string, at time.Time) Snapshot {
	return Snapshot{
		ID:         id,
		Domain:     domain,
		URL:        "https://" + domain + "/page",
		Title:      "Title " + id,
		HTML:       "<html><body>" + id + "</body></html>",
		ViewportW:  1280,
		ViewportH:  800,
		CapturedAt: at,
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	at := time.Now().Truncate(time.Millisecond)
	want := sample("s1", "example.com", at)
	if err := s.Insert(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Domain != want.Domain || got.URL != want.URL || got.Title != want.Title || got.HTML != want.HTML {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CapturedAt.Equal(at) {
		t.Errorf("captured_at: got %v, want %v", got.CapturedAt, at)
	}
	if got.ViewportW != 1280 || got.ViewportH != 800 {
		t.Errorf("viewport: %dx%d", got.ViewportW, got.ViewportH)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListByDomain(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now()
	for i, row := range []struct {
		id, domain string
	}{
		{"a1", "a.com"}, {"a2", "a.com"}, {"b1", "b.com"},
	} {
		if err := s.Insert(ctx, sample(row.id, row.domain, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListByDomain(ctx, "a.com", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "a2" || got[1].ID != "a1" {
		t.Errorf("order: %s, %s", got[0].ID, got[1].ID)
	}
	// List omits markup.
	if got[0].HTML != "" {
		t.Error("list should omit html bodies")
	}

	all, err := s.ListByDomain(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all domains: got %d, want 3", len(all))
	}

	limited, err := s.ListByDomain(ctx, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d, want 1", len(limited))
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sample("d1", "x.com", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	if err := s.Delete(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}
