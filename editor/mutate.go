package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// numericProperties are style properties whose values must carry a
// number (with an optional CSS unit). Non-numeric input is rejected
// before the element is touched.
var numericProperties = map[string]bool{
	"font-size":      true,
	"line-height":    true,
	"letter-spacing": true,
	"width":          true,
	"height":         true,
	"min-width":      true,
	"max-width":      true,
	"min-height":     true,
	"max-height":     true,
	"margin-top":     true,
	"margin-right":   true,
	"margin-bottom":  true,
	"margin-left":    true,
	"padding-top":    true,
	"padding-right":  true,
	"padding-bottom": true,
	"padding-left":   true,
	"gap":            true,
	"border-width":   true,
	"border-radius":  true,
	"opacity":        true,
}

var cssUnits = []string{"px", "em", "rem", "%", "vh", "vw", "pt", "ch"}

// validNumeric accepts "12", "1.5", "-4px", "20em", "100%".
func validNumeric(v string) bool {
	v = strings.TrimSpace(v)
	for _, u := range cssUnits {
		if strings.HasSuffix(v, u) {
			v = strings.TrimSuffix(v, u)
			break
		}
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil
}

// SetText replaces the selection's text content.
func (e *Editor) SetText(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "set text"}
	}

	if err := e.selected.SetText(ctx, text); err != nil {
		return fmt.Errorf("set text: %w", err)
	}
	e.afterMutationLocked(ctx)
	return nil
}

// SetValue replaces the selection's form-control value.
func (e *Editor) SetValue(ctx context.Context, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "set value"}
	}

	if err := e.selected.SetValue(ctx, value); err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	e.afterMutationLocked(ctx)
	return nil
}

// SetAttribute sets an attribute on the selection. An empty value
// removes the attribute instead of setting it to "".
func (e *Editor) SetAttribute(ctx context.Context, name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "set attribute"}
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "attribute name", Value: name, Reason: "must not be empty"}
	}

	var err error
	if value == "" {
		err = e.selected.RemoveAttribute(ctx, name)
	} else {
		err = e.selected.SetAttribute(ctx, name, value)
	}
	if err != nil {
		return fmt.Errorf("set attribute %s: %w", name, err)
	}
	e.afterMutationLocked(ctx)
	return nil
}

// SetStyle sets one inline style property on the selection. An empty
// value removes the property. Numeric properties reject non-numeric
// input with a ValidationError, leaving the element unmodified.
func (e *Editor) SetStyle(ctx context.Context, property, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "set style"}
	}
	if strings.TrimSpace(property) == "" {
		return &ValidationError{Field: "style property", Value: property, Reason: "must not be empty"}
	}
	if value != "" && numericProperties[property] && !validNumeric(value) {
		return &ValidationError{Field: property, Value: value, Reason: "expected a number with an optional unit"}
	}

	if err := e.selected.SetStyleProperty(ctx, property, value); err != nil {
		return fmt.Errorf("set style %s: %w", property, err)
	}
	e.afterMutationLocked(ctx)
	return nil
}

// Reset restores the selection from its snapshot: text, value, the
// exact raw style attribute (including absence) and the exact attribute
// set.
func (e *Editor) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil || e.snapshot == nil {
		return &NothingToResetError{}
	}

	if err := restoreSnapshot(ctx, e.selected, e.snapshot); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	e.afterMutationLocked(ctx)
	return nil
}

// afterMutationLocked is the common tail of every element mutation: the
// element's size may have changed, the panel shows live values, and
// listeners need the new state.
func (e *Editor) afterMutationLocked(ctx context.Context) {
	e.refreshHighlightLocked(ctx)
	e.renderPanelLocked(ctx)
	e.broadcastLocked(ctx)
}
