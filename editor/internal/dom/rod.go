package dom

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// trackJS registers the element in a page-global registry and returns a
// stable id. The registry survives chrome teardown; it holds weak
// references so it does not pin removed nodes.
const trackJS = `() => {
	let reg = window.__domedit_reg;
	if (!reg) {
		reg = window.__domedit_reg = { seq: 0, byId: new Map(), ids: new WeakMap() };
	}
	let id = reg.ids.get(this);
	if (!id) {
		id = 'n' + (++reg.seq);
		reg.ids.set(this, id);
		reg.byId.set(id, this);
	}
	return id;
}`

// RodDocument adapts a Rod page to Document.
type RodDocument struct {
	page *rod.Page
}

// NewRodDocument wraps a Rod page.
func NewRodDocument(page *rod.Page) *RodDocument {
	return &RodDocument{page: page}
}

func (d *RodDocument) Root(ctx context.Context) (Element, error) {
	el, err := d.page.Context(ctx).ElementByJS(rod.Eval(`() => document.documentElement`))
	if err != nil {
		return nil, fmt.Errorf("dom: root: %w", err)
	}
	return newRodElement(ctx, el)
}

func (d *RodDocument) ByID(ctx context.Context, id string) (Element, error) {
	res, err := d.page.Context(ctx).Eval(`id => {
		const reg = window.__domedit_reg;
		return !!(reg && reg.byId.get(id));
	}`, id)
	if err != nil {
		return nil, fmt.Errorf("dom: lookup %s: %w", id, err)
	}
	if !res.Value.Bool() {
		return nil, nil
	}
	el, err := d.page.Context(ctx).ElementByJS(rod.Eval(`id => window.__domedit_reg.byId.get(id)`, id))
	if err != nil {
		return nil, fmt.Errorf("dom: resolve %s: %w", id, err)
	}
	return &RodElement{el: el, id: id}, nil
}

func (d *RodDocument) Title(ctx context.Context) (string, error) {
	res, err := d.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("dom: title: %w", err)
	}
	return res.Value.Str(), nil
}

func (d *RodDocument) URL(ctx context.Context) (string, error) {
	res, err := d.page.Context(ctx).Eval(`() => location.href`)
	if err != nil {
		return "", fmt.Errorf("dom: url: %w", err)
	}
	return res.Value.Str(), nil
}

func (d *RodDocument) OuterHTML(ctx context.Context) (string, error) {
	res, err := d.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("dom: outer html: %w", err)
	}
	return res.Value.Str(), nil
}

func (d *RodDocument) Viewport(ctx context.Context) (int, int, error) {
	res, err := d.page.Context(ctx).Eval(`() => [window.innerWidth, window.innerHeight]`)
	if err != nil {
		return 0, 0, fmt.Errorf("dom: viewport: %w", err)
	}
	arr := res.Value.Arr()
	if len(arr) != 2 {
		return 0, 0, fmt.Errorf("dom: viewport: unexpected result")
	}
	return int(arr[0].Int()), int(arr[1].Int()), nil
}

// RodElement adapts a Rod element handle to Element.
type RodElement struct {
	el *rod.Element
	id string
}

func newRodElement(ctx context.Context, el *rod.Element) (*RodElement, error) {
	res, err := el.Context(ctx).Eval(trackJS)
	if err != nil {
		return nil, fmt.Errorf("dom: track element: %w", err)
	}
	return &RodElement{el: el, id: res.Value.Str()}, nil
}

func (e *RodElement) ID() string { return e.id }

func (e *RodElement) Tag(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", fmt.Errorf("dom: tag: %w", err)
	}
	return res.Value.Str(), nil
}

func (e *RodElement) Attributes(ctx context.Context) (map[string]string, error) {
	res, err := e.el.Context(ctx).Eval(`() => {
		const out = {};
		for (const a of this.attributes) out[a.name] = a.value;
		return out;
	}`)
	if err != nil {
		return nil, fmt.Errorf("dom: attributes: %w", err)
	}
	attrs := make(map[string]string)
	for name, v := range res.Value.Map() {
		attrs[name] = v.Str()
	}
	return attrs, nil
}

func (e *RodElement) SetAttribute(ctx context.Context, name, value string) error {
	_, err := e.el.Context(ctx).Eval(`(n, v) => this.setAttribute(n, v)`, name, value)
	if err != nil {
		return fmt.Errorf("dom: set attribute %s: %w", name, err)
	}
	return nil
}

func (e *RodElement) RemoveAttribute(ctx context.Context, name string) error {
	_, err := e.el.Context(ctx).Eval(`n => this.removeAttribute(n)`, name)
	if err != nil {
		return fmt.Errorf("dom: remove attribute %s: %w", name, err)
	}
	return nil
}

func (e *RodElement) SetStyleProperty(ctx context.Context, property, value string) error {
	_, err := e.el.Context(ctx).Eval(`(p, v) => {
		if (v === '') this.style.removeProperty(p);
		else this.style.setProperty(p, v);
	}`, property, value)
	if err != nil {
		return fmt.Errorf("dom: set style %s: %w", property, err)
	}
	return nil
}

func (e *RodElement) Text(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.textContent`)
	if err != nil {
		return "", fmt.Errorf("dom: text: %w", err)
	}
	return res.Value.Str(), nil
}

func (e *RodElement) SetText(ctx context.Context, text string) error {
	_, err := e.el.Context(ctx).Eval(`t => { this.textContent = t; }`, text)
	if err != nil {
		return fmt.Errorf("dom: set text: %w", err)
	}
	return nil
}

func (e *RodElement) Value(ctx context.Context) (*string, error) {
	res, err := e.el.Context(ctx).Eval(`() => {
		const t = this.tagName;
		if (t === 'INPUT' || t === 'TEXTAREA' || t === 'SELECT') return this.value;
		return null;
	}`)
	if err != nil {
		return nil, fmt.Errorf("dom: value: %w", err)
	}
	if res.Value.Nil() {
		return nil, nil
	}
	v := res.Value.Str()
	return &v, nil
}

func (e *RodElement) SetValue(ctx context.Context, value string) error {
	_, err := e.el.Context(ctx).Eval(`v => { this.value = v; }`, value)
	if err != nil {
		return fmt.Errorf("dom: set value: %w", err)
	}
	return nil
}

func (e *RodElement) ComputedStyles(ctx context.Context, properties []string) (map[string]string, error) {
	res, err := e.el.Context(ctx).Eval(`props => {
		const cs = getComputedStyle(this);
		const out = {};
		for (const p of props) out[p] = cs.getPropertyValue(p);
		return out;
	}`, properties)
	if err != nil {
		return nil, fmt.Errorf("dom: computed styles: %w", err)
	}
	styles := make(map[string]string, len(properties))
	for name, v := range res.Value.Map() {
		styles[name] = v.Str()
	}
	return styles, nil
}

func (e *RodElement) Rect(ctx context.Context) (Rect, error) {
	res, err := e.el.Context(ctx).Eval(`() => {
		const r = this.getBoundingClientRect();
		return { x: r.x, y: r.y, width: r.width, height: r.height };
	}`)
	if err != nil {
		return Rect{}, fmt.Errorf("dom: rect: %w", err)
	}
	m := res.Value.Map()
	return Rect{
		X:      m["x"].Num(),
		Y:      m["y"].Num(),
		Width:  m["width"].Num(),
		Height: m["height"].Num(),
	}, nil
}

func (e *RodElement) Parent(ctx context.Context) (Element, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.parentElement !== null`)
	if err != nil {
		return nil, fmt.Errorf("dom: parent: %w", err)
	}
	if !res.Value.Bool() {
		return nil, nil
	}
	p, err := e.el.Context(ctx).ElementByJS(rod.Eval(`() => this.parentElement`))
	if err != nil {
		return nil, fmt.Errorf("dom: parent: %w", err)
	}
	return newRodElement(ctx, p)
}

func (e *RodElement) Children(ctx context.Context) ([]Element, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.children.length`)
	if err != nil {
		return nil, fmt.Errorf("dom: children: %w", err)
	}
	n := int(res.Value.Int())

	children := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		c, err := e.el.Context(ctx).ElementByJS(rod.Eval(`i => this.children[i]`, i))
		if err != nil {
			return nil, fmt.Errorf("dom: child %d: %w", i, err)
		}
		child, err := newRodElement(ctx, c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func (e *RodElement) MoveChild(ctx context.Context, from, to int) error {
	_, err := e.el.Context(ctx).Eval(`(from, to) => {
		const kids = Array.from(this.children);
		const child = kids[from];
		if (!child) return;
		const ref = kids[to + (from < to ? 1 : 0)] || null;
		this.insertBefore(child, ref);
	}`, from, to)
	if err != nil {
		return fmt.Errorf("dom: move child %d -> %d: %w", from, to, err)
	}
	return nil
}
