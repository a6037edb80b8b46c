// Package strategy plans and executes declarative extraction
// strategies: a short sequence of page interactions followed by a set
// of content views collected from the resulting document.
package strategy

import "github.com/hazyhaar/domedit/extract"

// StepKind is one interaction kind.
type StepKind string

const (
	StepClick  StepKind = "click"
	StepInput  StepKind = "input"
	StepHover  StepKind = "hover"
	StepScroll StepKind = "scroll"
	StepWait   StepKind = "wait"
)

// Step is one page interaction, applied in order before views are
// collected.
type Step struct {
	Kind     StepKind `json:"kind"`
	Selector string   `json:"selector,omitempty"`
	Value    string   `json:"value,omitempty"`
	// DurationMS applies to wait steps.
	DurationMS int `json:"duration_ms,omitempty"`
	// Pixels applies to scroll steps; positive scrolls down.
	Pixels int `json:"pixels,omitempty"`
}

// View names one piece of content to collect after the steps ran.
type View struct {
	Name     string       `json:"name"`
	Selector string       `json:"selector,omitempty"`
	Mode     extract.Mode `json:"mode"`
}

// Strategy is a complete declarative extraction plan.
type Strategy struct {
	Name  string `json:"name,omitempty"`
	Steps []Step `json:"steps,omitempty"`
	Views []View `json:"views"`
}

// ViewResult is one collected view rendered as text, raw markup and
// markdown.
type ViewResult struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}
