package editor

import (
	"context"

	"github.com/hazyhaar/domedit/editor/internal/dom"
)

// styleProperties is the fixed whitelist captured into a snapshot's
// inline and computed style maps. The raw style attribute is still
// captured in full; the whitelist only bounds what the panel displays.
var styleProperties = []string{
	"color", "background-color", "background-image",
	"font-size", "font-family", "font-weight", "font-style",
	"line-height", "letter-spacing", "text-align", "text-decoration-line",
	"text-transform",
	"width", "height", "min-width", "max-width", "min-height", "max-height",
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"display", "position",
	"flex-direction", "justify-content", "align-items", "gap",
	"border-width", "border-style", "border-color", "border-radius",
	"box-shadow", "opacity",
}

// captureSnapshot freezes the element's current state for later revert.
func captureSnapshot(ctx context.Context, el dom.Element) (*ElementSnapshot, error) {
	text, err := el.Text(ctx)
	if err != nil {
		return nil, err
	}
	value, err := el.Value(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := el.Attributes(ctx)
	if err != nil {
		return nil, err
	}
	computed, err := el.ComputedStyles(ctx, styleProperties)
	if err != nil {
		return nil, err
	}

	var styleAttr *string
	if v, ok := attrs["style"]; ok {
		s := v
		styleAttr = &s
	}

	inline := make(map[string]string)
	if styleAttr != nil {
		decls := dom.ParseStyleText(*styleAttr)
		for _, p := range styleProperties {
			if v, ok := dom.LookupStyle(decls, p); ok {
				inline[p] = v
			}
		}
	}

	return &ElementSnapshot{
		Text:           text,
		Value:          value,
		StyleAttribute: styleAttr,
		Attributes:     attrs,
		InlineStyles:   inline,
		Computed:       computed,
	}, nil
}

// restoreSnapshot puts the element back into its captured state:
// text/value, the exact raw style attribute (including absence), and
// the exact attribute set. Attributes added since capture are removed,
// removed ones come back. The style attribute is handled directly and
// skipped by the generic reconciliation.
func restoreSnapshot(ctx context.Context, el dom.Element, snap *ElementSnapshot) error {
	cur, err := el.Text(ctx)
	if err != nil {
		return err
	}
	if cur != snap.Text {
		if err := el.SetText(ctx, snap.Text); err != nil {
			return err
		}
	}

	if snap.Value != nil {
		if err := el.SetValue(ctx, *snap.Value); err != nil {
			return err
		}
	}

	attrs, err := el.Attributes(ctx)
	if err != nil {
		return err
	}
	for name := range attrs {
		if name == "style" {
			continue
		}
		if _, ok := snap.Attributes[name]; !ok {
			if err := el.RemoveAttribute(ctx, name); err != nil {
				return err
			}
		}
	}
	for name, v := range snap.Attributes {
		if name == "style" {
			continue
		}
		if err := el.SetAttribute(ctx, name, v); err != nil {
			return err
		}
	}

	if snap.StyleAttribute == nil {
		return el.RemoveAttribute(ctx, "style")
	}
	return el.SetAttribute(ctx, "style", *snap.StyleAttribute)
}
