package strategy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/domedit/extract"
)

func TestValidate(t *testing.T) {
	view := View{Name: "main", Selector: "#main", Mode: extract.ModeCSS}

	tests := []struct {
		name    string
		s       Strategy
		wantErr string
	}{
		{
			name:    "no views",
			s:       Strategy{},
			wantErr: "at least one view",
		},
		{
			name: "valid minimal",
			s:    Strategy{Views: []View{view}},
		},
		{
			name: "valid with steps",
			s: Strategy{
				Steps: []Step{
					{Kind: StepClick, Selector: "#more"},
					{Kind: StepInput, Selector: "input", Value: "query"},
					{Kind: StepScroll, Pixels: 800},
					{Kind: StepWait, DurationMS: 500},
					{Kind: StepHover, Selector: ".menu"},
				},
				Views: []View{view},
			},
		},
		{
			name:    "click without selector",
			s:       Strategy{Steps: []Step{{Kind: StepClick}}, Views: []View{view}},
			wantErr: "requires a selector",
		},
		{
			name:    "input without value",
			s:       Strategy{Steps: []Step{{Kind: StepInput, Selector: "input"}}, Views: []View{view}},
			wantErr: "requires a value",
		},
		{
			name:    "wait too long",
			s:       Strategy{Steps: []Step{{Kind: StepWait, DurationMS: 60000}}, Views: []View{view}},
			wantErr: "wait duration",
		},
		{
			name:    "unknown step kind",
			s:       Strategy{Steps: []Step{{Kind: "jump", Selector: "x"}}, Views: []View{view}},
			wantErr: "unknown step kind",
		},
		{
			name:    "view without name",
			s:       Strategy{Views: []View{{Selector: "#x", Mode: extract.ModeCSS}}},
			wantErr: "requires a name",
		},
		{
			name:    "css view without selector",
			s:       Strategy{Views: []View{{Name: "x", Mode: extract.ModeCSS}}},
			wantErr: "requires a selector",
		},
		{
			name: "text view without selector",
			s:    Strategy{Views: []View{{Name: "all", Mode: extract.ModeText}}},
		},
		{
			name:    "unknown view mode",
			s:       Strategy{Views: []View{{Name: "x", Selector: "#x", Mode: "regex"}}},
			wantErr: "unknown view mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.s)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// fakeDriver records the steps it receives and serves a fixed page.
type fakeDriver struct {
	page  string
	calls []string
	fail  string // step kind that should fail
}

func (d *fakeDriver) record(kind, detail string) error {
	d.calls = append(d.calls, kind+":"+detail)
	if d.fail == kind {
		return context.DeadlineExceeded
	}
	return nil
}

func (d *fakeDriver) Click(_ context.Context, sel string) error { return d.record("click", sel) }
func (d *fakeDriver) Hover(_ context.Context, sel string) error { return d.record("hover", sel) }
func (d *fakeDriver) Input(_ context.Context, sel, val string) error {
	return d.record("input", sel+"="+val)
}
func (d *fakeDriver) Scroll(_ context.Context, px int) error { return d.record("scroll", "") }
func (d *fakeDriver) HTML(_ context.Context) (string, error) { return d.page, nil }
func (d *fakeDriver) URL() string                            { return "https://example.com/page" }

const testPage = `<html><head><title>Fixture</title></head><body>
<nav>menu items</nav>
<main id="content"><h1>Heading</h1><p>Body text here.</p></main>
<footer>legal</footer>
</body></html>`

func TestExecutor_RunsStepsThenCollectsViews(t *testing.T) {
	drv := &fakeDriver{page: testPage}
	exec := NewExecutor(drv, nil)

	results, err := exec.Run(context.Background(), Strategy{
		Steps: []Step{
			{Kind: StepClick, Selector: "#more"},
			{Kind: StepScroll, Pixels: 400},
		},
		Views: []View{
			{Name: "content", Selector: "#content", Mode: extract.ModeCSS},
			{Name: "all", Mode: extract.ModeText},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(drv.calls) != 2 || drv.calls[0] != "click:#more" {
		t.Errorf("steps not applied in order: %v", drv.calls)
	}
	if len(results) != 2 {
		t.Fatalf("got %d views, want 2", len(results))
	}

	content := results[0]
	if content.Name != "content" || !strings.Contains(content.Text, "Body text here.") {
		t.Errorf("content view: %+v", content)
	}
	if content.Title != "Fixture" {
		t.Errorf("title: %q", content.Title)
	}
	if !strings.Contains(content.Markdown, "Heading") {
		t.Errorf("markdown missing heading: %q", content.Markdown)
	}

	// Text mode drops nav/footer boilerplate.
	all := results[1]
	if strings.Contains(all.Text, "menu items") || strings.Contains(all.Text, "legal") {
		t.Errorf("boilerplate survived text view: %q", all.Text)
	}
}

func TestExecutor_StepFailureAborts(t *testing.T) {
	drv := &fakeDriver{page: testPage, fail: "click"}
	exec := NewExecutor(drv, nil)

	_, err := exec.Run(context.Background(), Strategy{
		Steps: []Step{{Kind: StepClick, Selector: "#gone"}},
		Views: []View{{Name: "all", Mode: extract.ModeText}},
	})
	if err == nil || !strings.Contains(err.Error(), "step 0") {
		t.Fatalf("got %v, want step failure", err)
	}
}

func TestExecutor_SkipsEmptyViews(t *testing.T) {
	drv := &fakeDriver{page: testPage}
	exec := NewExecutor(drv, nil)

	results, err := exec.Run(context.Background(), Strategy{
		Views: []View{
			{Name: "missing", Selector: "#nope", Mode: extract.ModeCSS},
			{Name: "content", Selector: "#content", Mode: extract.ModeCSS},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "content" {
		t.Fatalf("got %+v, want only the content view", results)
	}
}

func TestExecutor_AllViewsEmptyIsError(t *testing.T) {
	drv := &fakeDriver{page: testPage}
	exec := NewExecutor(drv, nil)

	_, err := exec.Run(context.Background(), Strategy{
		Views: []View{{Name: "missing", Selector: "#nope", Mode: extract.ModeCSS}},
	})
	if err == nil || !strings.Contains(err.Error(), "no view produced content") {
		t.Fatalf("got %v, want no-content error", err)
	}
}

func plannerFixture(t *testing.T, reply string) *Planner {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return NewPlanner("test-key", WithBaseURL(srv.URL), WithModel("test-model"))
}

func TestPlanner_DecodesPlan(t *testing.T) {
	plan := `{"name":"grab article","steps":[{"kind":"wait","duration_ms":200}],"views":[{"name":"body","selector":"article","mode":"css"}]}`
	p := plannerFixture(t, plan)

	s, err := p.Plan(context.Background(), PageContext{URL: "https://example.com", Title: "Ex", Markup: "<html></html>"}, "get the article")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "grab article" || len(s.Steps) != 1 || len(s.Views) != 1 {
		t.Errorf("decoded plan: %+v", s)
	}
}

func TestPlanner_StripsCodeFences(t *testing.T) {
	plan := "```json\n{\"views\":[{\"name\":\"all\",\"mode\":\"text\"}]}\n```"
	p := plannerFixture(t, plan)

	s, err := p.Plan(context.Background(), PageContext{}, "everything")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Views) != 1 || s.Views[0].Name != "all" {
		t.Errorf("decoded plan: %+v", s)
	}
}

func TestPlanner_RejectsInvalidPlan(t *testing.T) {
	p := plannerFixture(t, `{"views":[]}`)

	_, err := p.Plan(context.Background(), PageContext{}, "anything")
	if err == nil || !strings.Contains(err.Error(), "invalid plan") {
		t.Fatalf("got %v, want invalid plan error", err)
	}
}

func TestPlanner_RequiresGoal(t *testing.T) {
	p := NewPlanner("test-key")
	if _, err := p.Plan(context.Background(), PageContext{}, ""); err == nil {
		t.Fatal("expected error for empty goal")
	}
}
