package dom

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeDocument is an in-memory Document for tests and offline use. It
// mirrors the semantics the editor depends on: attribute presence vs
// absence, inline style round-tripping through the style attribute, and
// element-children-only tree navigation.
type FakeDocument struct {
	mu    sync.Mutex
	seq   int
	root  *FakeElement
	byID  map[string]*FakeElement
	title string
	url   string

	ViewportW int
	ViewportH int
}

// NewFakeDocument creates an empty document with an <html> root.
func NewFakeDocument(title, url string) *FakeDocument {
	d := &FakeDocument{
		byID:      make(map[string]*FakeElement),
		title:     title,
		url:       url,
		ViewportW: 1280,
		ViewportH: 800,
	}
	d.root = d.NewElement("html", nil)
	return d
}

// NewElement creates an element attached to the document (but not to the
// tree) with the given attributes.
func (d *FakeDocument) NewElement(tag string, attrs map[string]string) *FakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	el := &FakeElement{
		doc:      d,
		id:       fmt.Sprintf("f%d", d.seq),
		tag:      tag,
		attrs:    make(map[string]string, len(attrs)),
		computed: make(map[string]string),
	}
	for k, v := range attrs {
		el.attrs[k] = v
	}
	d.byID[el.id] = el
	return el
}

// RootElement returns the concrete root for test setup.
func (d *FakeDocument) RootElement() *FakeElement { return d.root }

func (d *FakeDocument) Root(context.Context) (Element, error) { return d.root, nil }

func (d *FakeDocument) ByID(_ context.Context, id string) (Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.byID[id]
	if !ok {
		return nil, nil
	}
	return el, nil
}

func (d *FakeDocument) Title(context.Context) (string, error) { return d.title, nil }
func (d *FakeDocument) URL(context.Context) (string, error)   { return d.url, nil }

func (d *FakeDocument) OuterHTML(context.Context) (string, error) {
	var b strings.Builder
	d.root.render(&b)
	return b.String(), nil
}

func (d *FakeDocument) Viewport(context.Context) (int, int, error) {
	return d.ViewportW, d.ViewportH, nil
}

// FakeElement implements Element over in-memory state.
type FakeElement struct {
	doc      *FakeDocument
	id       string
	tag      string
	attrs    map[string]string
	text     string
	value    *string
	computed map[string]string
	rect     Rect
	parent   *FakeElement
	children []*FakeElement
}

// AppendChild attaches a child for test setup.
func (e *FakeElement) AppendChild(c *FakeElement) *FakeElement {
	c.parent = e
	e.children = append(e.children, c)
	return c
}

// SetRect sets the bounding rectangle for test setup.
func (e *FakeElement) SetRect(r Rect) { e.rect = r }

// SetComputed sets a computed style value for test setup.
func (e *FakeElement) SetComputed(prop, val string) { e.computed[prop] = val }

// MakeInput marks the element input-like with the given value.
func (e *FakeElement) MakeInput(v string) { e.value = &v }

func (e *FakeElement) ID() string { return e.id }

func (e *FakeElement) Tag(context.Context) (string, error) { return e.tag, nil }

func (e *FakeElement) Attributes(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out, nil
}

func (e *FakeElement) SetAttribute(_ context.Context, name, value string) error {
	e.attrs[name] = value
	return nil
}

func (e *FakeElement) RemoveAttribute(_ context.Context, name string) error {
	delete(e.attrs, name)
	return nil
}

func (e *FakeElement) SetStyleProperty(_ context.Context, property, value string) error {
	decls := ParseStyleText(e.attrs["style"])
	var next []Decl
	for _, d := range decls {
		if d.Property != property {
			next = append(next, d)
		}
	}
	if value != "" {
		next = append(next, Decl{Property: property, Value: value})
	}
	if len(next) == 0 {
		// Browsers leave an empty style attribute behind after the
		// last property is removed; only an explicit removeAttribute
		// drops it.
		if _, ok := e.attrs["style"]; ok {
			e.attrs["style"] = ""
		}
		return nil
	}
	e.attrs["style"] = FormatStyleText(next)
	return nil
}

func (e *FakeElement) Text(context.Context) (string, error) { return e.text, nil }

func (e *FakeElement) SetText(_ context.Context, text string) error {
	e.text = text
	return nil
}

func (e *FakeElement) Value(context.Context) (*string, error) {
	if e.value == nil {
		return nil, nil
	}
	v := *e.value
	return &v, nil
}

func (e *FakeElement) SetValue(_ context.Context, value string) error {
	if e.value == nil {
		return fmt.Errorf("dom: element %s is not input-like", e.tag)
	}
	e.value = &value
	return nil
}

func (e *FakeElement) ComputedStyles(_ context.Context, properties []string) (map[string]string, error) {
	out := make(map[string]string, len(properties))
	inline := ParseStyleText(e.attrs["style"])
	for _, p := range properties {
		if v, ok := LookupStyle(inline, p); ok {
			out[p] = v
			continue
		}
		out[p] = e.computed[p]
	}
	return out, nil
}

func (e *FakeElement) Rect(context.Context) (Rect, error) { return e.rect, nil }

func (e *FakeElement) Parent(context.Context) (Element, error) {
	if e.parent == nil {
		return nil, nil
	}
	return e.parent, nil
}

func (e *FakeElement) Children(context.Context) ([]Element, error) {
	out := make([]Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out, nil
}

func (e *FakeElement) MoveChild(_ context.Context, from, to int) error {
	if from < 0 || from >= len(e.children) || to < 0 || to >= len(e.children) {
		return fmt.Errorf("dom: move child %d -> %d out of range", from, to)
	}
	child := e.children[from]
	rest := append(e.children[:from:from], e.children[from+1:]...)
	next := make([]*FakeElement, 0, len(e.children))
	next = append(next, rest[:to]...)
	next = append(next, child)
	next = append(next, rest[to:]...)
	e.children = next
	return nil
}

func (e *FakeElement) render(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.tag)
	for k, v := range e.attrs {
		fmt.Fprintf(b, " %s=%q", k, v)
	}
	b.WriteByte('>')
	b.WriteString(e.text)
	for _, c := range e.children {
		c.render(b)
	}
	fmt.Fprintf(b, "</%s>", e.tag)
}
