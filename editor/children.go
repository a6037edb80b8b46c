package editor

import (
	"context"
	"fmt"
)

// childEntriesLocked lists the selection's direct element children in
// DOM order, each with its index and display descriptor.
func (e *Editor) childEntriesLocked(ctx context.Context) ([]ChildEntry, error) {
	if e.selected == nil {
		return nil, nil
	}
	children, err := e.selected.Children(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ChildEntry, 0, len(children))
	for i, c := range children {
		desc, err := describe(ctx, c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ChildEntry{Index: i, Descriptor: desc})
	}
	return entries, nil
}

// Children lists the selection's direct element children.
func (e *Editor) Children(ctx context.Context) ([]ChildEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return nil, &NotActiveError{}
	}
	if e.selected == nil {
		return nil, &NoSelectionError{Op: "list children"}
	}
	return e.childEntriesLocked(ctx)
}

// Reorder moves the child at source so its final position among the
// selection's children is target. Equal indices are a no-op. Both
// indices are resolved against a fresh child list, never a cached one,
// so a stale index from the UI cannot move the wrong element.
func (e *Editor) Reorder(ctx context.Context, source, target int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "reorder children"}
	}
	if source == target {
		return nil
	}

	children, err := e.selected.Children(ctx)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	if source < 0 || source >= len(children) {
		return &IndexOutOfRangeError{Index: source, Count: len(children)}
	}
	if target < 0 || target >= len(children) {
		return &IndexOutOfRangeError{Index: target, Count: len(children)}
	}

	if err := e.selected.MoveChild(ctx, source, target); err != nil {
		return fmt.Errorf("move child: %w", err)
	}
	e.renderPanelLocked(ctx)
	e.broadcastLocked(ctx)
	return nil
}
