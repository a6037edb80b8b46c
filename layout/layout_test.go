package layout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/domedit/dbopen"
	"github.com/hazyhaar/domedit/layout/internal/store"

	_ "modernc.org/sqlite"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema))
	return NewWithStore(store.New(db), nil)
}

func TestSanitize(t *testing.T) {
	in := `<div style="color:red" onclick="steal()">hi<script>alert(1)</script></div>`
	out := Sanitize(in)

	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Errorf("active content survived: %q", out)
	}
	if !strings.Contains(out, `style="color:red"`) {
		t.Errorf("inline style stripped: %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("content lost: %q", out)
	}
}

func TestService_SaveSanitizesAndStores(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	err := svc.Save(ctx, Snapshot{
		ID:         "s1",
		Domain:     "example.com",
		URL:        "https://example.com/",
		HTML:       `<main style="margin:0">ok<script>x()</script></main>`,
		CapturedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got.HTML, "script") {
		t.Errorf("stored markup not sanitized: %q", got.HTML)
	}
	if !strings.Contains(got.HTML, "ok") {
		t.Errorf("stored markup lost content: %q", got.HTML)
	}
}

func TestService_SaveRequiresID(t *testing.T) {
	svc := testService(t)
	if err := svc.Save(context.Background(), Snapshot{Domain: "x"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}
