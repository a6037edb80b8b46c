// Package dom abstracts the live document the editor operates on.
//
// The editor never touches go-rod directly. It works against Document and
// Element so the same state machine drives a real Chrome page (rod.go) or
// an in-memory document (fake.go) in tests.
package dom

import "context"

// Rect is an element's bounding rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports a zero-area rectangle (detached or hidden element).
func (r Rect) Empty() bool { return r.Width == 0 && r.Height == 0 }

// Document is the live page.
type Document interface {
	// Root returns the document element.
	Root(ctx context.Context) (Element, error)

	// ByID resolves an element handle previously assigned by the
	// editor chrome. Returns nil, nil when the id is unknown (the page
	// may have replaced the node since the event was emitted).
	ByID(ctx context.Context, id string) (Element, error)

	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)

	// OuterHTML serialises the full document markup.
	OuterHTML(ctx context.Context) (string, error)

	// Viewport returns the layout viewport size in CSS pixels.
	Viewport(ctx context.Context) (width, height int, err error)
}

// Element is a non-owning handle on a live element. The page owns the
// node; any method may fail if the page mutated it away underneath us.
type Element interface {
	// ID is a stable identifier for the underlying node, usable for
	// equality checks across handles.
	ID() string

	Tag(ctx context.Context) (string, error)

	// Attributes returns every attribute present on the element.
	// Presence of the "style" key distinguishes an empty style
	// attribute from an absent one.
	Attributes(ctx context.Context) (map[string]string, error)
	SetAttribute(ctx context.Context, name, value string) error
	RemoveAttribute(ctx context.Context, name string) error

	// SetStyleProperty sets one inline style property. An empty value
	// removes the property instead of setting it to "".
	SetStyleProperty(ctx context.Context, property, value string) error

	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string) error

	// Value returns the form-control value, or nil for elements that
	// are not input-like.
	Value(ctx context.Context) (*string, error)
	SetValue(ctx context.Context, value string) error

	// ComputedStyles resolves the given property names against the
	// element's computed style.
	ComputedStyles(ctx context.Context, properties []string) (map[string]string, error)

	Rect(ctx context.Context) (Rect, error)

	// Parent returns the parent element, or nil, nil at the tree root.
	Parent(ctx context.Context) (Element, error)

	// Children returns direct element children in DOM order. Text and
	// comment nodes are excluded.
	Children(ctx context.Context) ([]Element, error)

	// MoveChild removes the child at from and re-inserts it so its
	// final position among the children is to.
	MoveChild(ctx context.Context, from, to int) error
}

// Same reports whether two handles refer to the same node.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
