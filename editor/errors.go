package editor

import "fmt"

// NotActiveError is returned when an operation requires an active
// editor session.
type NotActiveError struct{}

func (e *NotActiveError) Error() string { return "editor is not active" }

// NoSelectionError is returned when an operation requires a selected
// element.
type NoSelectionError struct {
	Op string
}

func (e *NoSelectionError) Error() string {
	return fmt.Sprintf("%s: no element selected", e.Op)
}

// NoParentError is returned by SelectParent at the tree root.
type NoParentError struct {
	Descriptor string
}

func (e *NoParentError) Error() string {
	return fmt.Sprintf("%s has no parent element", e.Descriptor)
}

// IndexOutOfRangeError is returned when a child index does not resolve
// against the current child list.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("child index %d out of range [0, %d)", e.Index, e.Count)
}

// ValidationError is returned when an input value is rejected before
// touching the element.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NothingToResetError is returned by Reset when no snapshot exists.
type NothingToResetError struct{}

func (e *NothingToResetError) Error() string { return "nothing to reset" }

// PersistenceError wraps a failed layout save.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("layout save failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TransportError wraps a failed command or broadcast delivery.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport unavailable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
