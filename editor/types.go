package editor

// ElementSnapshot is the frozen record of one element at selection
// time, used for revert. Taken exactly once per selection and never
// mutated afterwards.
type ElementSnapshot struct {
	// Text is the text content at capture time.
	Text string `json:"text"`

	// Value is the form-control value; nil for non-input elements.
	Value *string `json:"value,omitempty"`

	// StyleAttribute is the raw inline style attribute, or nil when the
	// attribute was absent. The distinction matters for restore: reset
	// must remove the attribute, not set it to "".
	StyleAttribute *string `json:"style_attribute"`

	// Attributes holds every attribute present at capture time,
	// including style.
	Attributes map[string]string `json:"attributes"`

	// InlineStyles maps whitelisted properties to their inline values
	// at capture time.
	InlineStyles map[string]string `json:"inline_styles"`

	// Computed maps whitelisted properties to their computed values at
	// capture time.
	Computed map[string]string `json:"computed"`
}

// ChildEntry describes one direct element child of the selection.
type ChildEntry struct {
	Index      int    `json:"index"`
	Descriptor string `json:"descriptor"`
}

// EditorState is the externally visible editor state, recomputed on
// demand. Descriptor, Snapshot and Children are set together when a
// selection exists and are all empty otherwise.
type EditorState struct {
	Active     bool             `json:"active"`
	Descriptor *string          `json:"descriptor"`
	Snapshot   *ElementSnapshot `json:"snapshot"`
	Children   []ChildEntry     `json:"children"`
	Theme      string           `json:"theme"`
}
