package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/domedit/editor/internal/dom"
)

// describe builds the display descriptor: tag#id.class1.class2, id and
// classes optional.
func describe(ctx context.Context, el dom.Element) (string, error) {
	tag, err := el.Tag(ctx)
	if err != nil {
		return "", err
	}
	attrs, err := el.Attributes(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(tag)
	if id := attrs["id"]; id != "" {
		fmt.Fprintf(&b, "#%s", id)
	}
	for _, cls := range strings.Fields(attrs["class"]) {
		fmt.Fprintf(&b, ".%s", cls)
	}
	return b.String(), nil
}

// isChromeOwned reports whether the element belongs to the injected
// editor UI. Checked on every pointer and click path so the editor can
// never select its own chrome, even if an event slips past the JS-side
// filter.
func isChromeOwned(ctx context.Context, el dom.Element) bool {
	for cur := el; cur != nil; {
		attrs, err := cur.Attributes(ctx)
		if err != nil {
			return false
		}
		if _, ok := attrs[chromeAttr]; ok {
			return true
		}
		parent, err := cur.Parent(ctx)
		if err != nil {
			return false
		}
		cur = parent
	}
	return false
}

// Hover moves the highlight overlay to the element with the given
// chrome-assigned id. Unknown ids (the page replaced the node) are
// ignored.
func (e *Editor) Hover(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}

	el, err := e.cfg.Document.ByID(ctx, id)
	if err != nil || el == nil {
		return nil
	}
	if isChromeOwned(ctx, el) {
		return e.hoverChromeLocked(ctx)
	}

	e.hovered = el
	e.highlightLocked(ctx, el)
	return nil
}

// HoverChrome handles the pointer moving over editor chrome: the
// overlay falls back to the current selection, or hides.
func (e *Editor) HoverChrome(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	return e.hoverChromeLocked(ctx)
}

func (e *Editor) hoverChromeLocked(ctx context.Context) error {
	e.hovered = nil
	if e.selected != nil {
		e.highlightLocked(ctx, e.selected)
		return nil
	}
	e.hideHighlightLocked(ctx)
	return nil
}

// RefreshHighlight recomputes the overlay rectangle for whatever the
// overlay currently tracks. Called on scroll and resize so the overlay
// never desyncs from its element.
func (e *Editor) RefreshHighlight(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	e.refreshHighlightLocked(ctx)
	return nil
}

func (e *Editor) refreshHighlightLocked(ctx context.Context) {
	switch {
	case e.hovered != nil:
		e.highlightLocked(ctx, e.hovered)
	case e.selected != nil:
		e.highlightLocked(ctx, e.selected)
	default:
		e.hideHighlightLocked(ctx)
	}
}

// highlightLocked positions the overlay over the element, hiding it for
// zero-area rectangles (detached or hidden elements).
func (e *Editor) highlightLocked(ctx context.Context, el dom.Element) {
	if e.cfg.Chrome == nil {
		return
	}
	r, err := el.Rect(ctx)
	if err != nil || r.Empty() {
		e.hideHighlightLocked(ctx)
		return
	}
	if err := e.cfg.Chrome.ShowHighlight(ctx, r.X, r.Y, r.Width, r.Height); err != nil {
		e.log.Warn("editor: show highlight", "error", err)
	}
}

func (e *Editor) hideHighlightLocked(ctx context.Context) {
	if e.cfg.Chrome == nil {
		return
	}
	if err := e.cfg.Chrome.HideHighlight(ctx); err != nil {
		e.log.Warn("editor: hide highlight", "error", err)
	}
}

// SelectByID resolves a chrome-assigned element id and selects it.
// Stale ids fail gracefully as a no-op.
func (e *Editor) SelectByID(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}

	el, err := e.cfg.Document.ByID(ctx, id)
	if err != nil {
		e.log.Warn("editor: resolve element", "id", id, "error", err)
		return nil
	}
	if el == nil {
		e.log.Debug("editor: stale element id", "id", id)
		return nil
	}
	return e.selectLocked(ctx, el)
}

// SelectElement selects the given element, captures its snapshot and
// shows it in the panel.
func (e *Editor) SelectElement(ctx context.Context, el dom.Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	return e.selectLocked(ctx, el)
}

// selectLocked is the single selection path: chrome exclusion, snapshot
// capture, highlight, panel render, one broadcast.
func (e *Editor) selectLocked(ctx context.Context, el dom.Element) error {
	if isChromeOwned(ctx, el) {
		return nil
	}

	snap, err := captureSnapshot(ctx, el)
	if err != nil {
		return fmt.Errorf("capture snapshot: %w", err)
	}

	e.selected = el
	e.snapshot = snap
	e.highlightLocked(ctx, el)
	e.renderPanelLocked(ctx)
	e.broadcastLocked(ctx)
	return nil
}

// SelectParent selects the parent of the current selection.
func (e *Editor) SelectParent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "select parent"}
	}

	parent, err := e.selected.Parent(ctx)
	if err != nil {
		return fmt.Errorf("resolve parent: %w", err)
	}
	if parent == nil {
		desc, _ := describe(ctx, e.selected)
		return &NoParentError{Descriptor: desc}
	}
	return e.selectLocked(ctx, parent)
}

// SelectChild selects the index-th element child of the current
// selection. The child list is resolved fresh at call time.
func (e *Editor) SelectChild(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "select child"}
	}

	children, err := e.selected.Children(ctx)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	if index < 0 || index >= len(children) {
		return &IndexOutOfRangeError{Index: index, Count: len(children)}
	}
	return e.selectLocked(ctx, children[index])
}
