// Package chrome injects and drives the in-page editor UI: highlight
// overlay, HUD, and property panel shell. Page events flow JS -> Go over
// a Runtime binding; highlight and panel updates flow Go -> JS via Eval.
package chrome

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed editor.js
var editorJS string

//go:embed editor.css
var editorCSS string

const bindingName = "__domedit_binding"

// Event is one UI event forwarded from the injected chrome.
type Event struct {
	Kind   string  `json:"kind"`
	ID     string  `json:"id,omitempty"`
	Key    string  `json:"key,omitempty"`
	Field  string  `json:"field,omitempty"`
	Value  string  `json:"value,omitempty"`
	Index  int     `json:"index,omitempty"`
	Source int     `json:"source,omitempty"`
	Target int     `json:"target,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Injector installs the editor chrome into one page.
type Injector struct {
	page   *rod.Page
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewInjector creates an Injector for the page.
func NewInjector(page *rod.Page, logger *slog.Logger) *Injector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Injector{page: page, logger: logger}
}

// Install sets up the JS -> Go binding, injects the stylesheet and the
// chrome script, and starts forwarding events to onEvent. Idempotent on
// the JS side: re-injection tears down any previous chrome first.
func (i *Injector) Install(ctx context.Context, onEvent func(Event)) error {
	if err := (proto.RuntimeAddBinding{Name: bindingName}.Call(i.page)); err != nil {
		i.logger.Warn("chrome: addBinding failed (may already exist)", "error", err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	i.cancel = cancel
	go i.listen(listenCtx, onEvent)

	if _, err := i.page.Context(ctx).Eval(`css => { window.__domedit_css = css; }`, editorCSS); err != nil {
		return fmt.Errorf("chrome: stage css: %w", err)
	}
	if _, err := i.page.Context(ctx).Eval(editorJS); err != nil {
		return fmt.Errorf("chrome: inject editor.js: %w", err)
	}
	return nil
}

// Teardown removes every injected node and listener from the page and
// stops event forwarding.
func (i *Injector) Teardown(ctx context.Context) error {
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
	}
	_, err := i.page.Context(ctx).Eval(`() => {
		if (window.__domedit) window.__domedit.teardown();
	}`)
	if err != nil {
		return fmt.Errorf("chrome: teardown: %w", err)
	}
	return nil
}

// ShowHighlight positions the overlay over the given viewport rectangle.
func (i *Injector) ShowHighlight(ctx context.Context, x, y, w, h float64) error {
	_, err := i.page.Context(ctx).Eval(`(x, y, w, h) => {
		if (window.__domedit) window.__domedit.highlight(x, y, w, h);
	}`, x, y, w, h)
	if err != nil {
		return fmt.Errorf("chrome: highlight: %w", err)
	}
	return nil
}

// HideHighlight hides the overlay.
func (i *Injector) HideHighlight(ctx context.Context) error {
	_, err := i.page.Context(ctx).Eval(`() => {
		if (window.__domedit) window.__domedit.hideHighlight();
	}`)
	if err != nil {
		return fmt.Errorf("chrome: hide highlight: %w", err)
	}
	return nil
}

// RenderPanel replaces the panel contents with the given model. The
// model is the editor's PanelModel serialized to JSON.
func (i *Injector) RenderPanel(ctx context.Context, model json.RawMessage) error {
	_, err := i.page.Context(ctx).Eval(`model => {
		if (window.__domedit) window.__domedit.renderPanel(model);
	}`, model)
	if err != nil {
		return fmt.Errorf("chrome: render panel: %w", err)
	}
	return nil
}

// HidePanel hides the panel without tearing down the chrome.
func (i *Injector) HidePanel(ctx context.Context) error {
	_, err := i.page.Context(ctx).Eval(`() => {
		if (window.__domedit) window.__domedit.hidePanel();
	}`)
	if err != nil {
		return fmt.Errorf("chrome: hide panel: %w", err)
	}
	return nil
}

func (i *Injector) listen(ctx context.Context, onEvent func(Event)) {
	i.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		var ev Event
		if err := json.Unmarshal([]byte(e.Payload), &ev); err != nil {
			i.logger.Warn("chrome: parse binding payload", "error", err)
			return
		}
		onEvent(ev)
	})()
}
