package editor

import (
	"context"
	"encoding/json"
)

// PanelField is one editable control bound to the selection.
type PanelField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"` // text | color | select
	Value   string   `json:"value"`
	Options []string `json:"options,omitempty"`
}

// PanelGroup is one labelled section of controls.
type PanelGroup struct {
	Name   string       `json:"name"`
	Label  string       `json:"label"`
	Fields []PanelField `json:"fields"`
}

// PanelModel is everything the chrome needs to render the panel. It is
// rebuilt from live element state on every render, never cached.
type PanelModel struct {
	Descriptor string            `json:"descriptor"`
	Groups     []PanelGroup      `json:"groups"`
	Children   []ChildEntry      `json:"children"`
	Geometry   resolvedGeometry  `json:"geometry"`
	Theme      string            `json:"theme"`
}

// resolvedGeometry carries the already-positioned panel box; the chrome
// applies it verbatim.
type resolvedGeometry struct {
	Dock   DockState `json:"dock"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

var (
	fontWeightOptions = []string{"normal", "bold", "100", "200", "300", "400", "500", "600", "700", "800", "900"}
	fontStyleOptions  = []string{"normal", "italic", "oblique"}
	textAlignOptions  = []string{"left", "center", "right", "justify"}
	transformOptions  = []string{"none", "uppercase", "lowercase", "capitalize"}
	displayOptions    = []string{"block", "inline", "inline-block", "flex", "grid", "none"}
	positionOptions   = []string{"static", "relative", "absolute", "fixed", "sticky"}
	flexDirOptions    = []string{"row", "row-reverse", "column", "column-reverse"}
	justifyOptions    = []string{"flex-start", "center", "flex-end", "space-between", "space-around", "space-evenly"}
	alignOptions      = []string{"stretch", "flex-start", "center", "flex-end", "baseline"}
	borderStyleOpts   = []string{"none", "solid", "dashed", "dotted", "double"}
)

// buildPanelModelLocked reads the selection's current state into a
// renderable model.
func (e *Editor) buildPanelModelLocked(ctx context.Context) (PanelModel, error) {
	desc, err := describe(ctx, e.selected)
	if err != nil {
		return PanelModel{}, err
	}
	text, err := e.selected.Text(ctx)
	if err != nil {
		return PanelModel{}, err
	}
	value, err := e.selected.Value(ctx)
	if err != nil {
		return PanelModel{}, err
	}
	styles, err := e.selected.ComputedStyles(ctx, styleProperties)
	if err != nil {
		return PanelModel{}, err
	}
	children, err := e.childEntriesLocked(ctx)
	if err != nil {
		return PanelModel{}, err
	}

	style := func(name, label string) PanelField {
		return PanelField{Name: name, Label: label, Kind: "text", Value: styles[name]}
	}
	color := func(name, label string) PanelField {
		return PanelField{Name: name, Label: label, Kind: "color", Value: NormalizeColor(styles[name])}
	}
	sel := func(name, label string, opts []string) PanelField {
		return PanelField{Name: name, Label: label, Kind: "select", Value: styles[name], Options: opts}
	}

	content := PanelGroup{Name: "content", Label: "Content", Fields: []PanelField{
		{Name: "text", Label: "Text", Kind: "text", Value: text},
	}}
	if value != nil {
		content.Fields = append(content.Fields, PanelField{Name: "value", Label: "Value", Kind: "text", Value: *value})
	}

	groups := []PanelGroup{
		content,
		{Name: "typography", Label: "Typography", Fields: []PanelField{
			style("font-size", "Size"),
			style("font-family", "Family"),
			sel("font-weight", "Weight", fontWeightOptions),
			sel("font-style", "Style", fontStyleOptions),
			style("line-height", "Line height"),
			style("letter-spacing", "Letter spacing"),
			sel("text-align", "Align", textAlignOptions),
			sel("text-transform", "Transform", transformOptions),
		}},
		{Name: "color", Label: "Color", Fields: []PanelField{
			color("color", "Text"),
			color("background-color", "Background"),
		}},
		{Name: "spacing", Label: "Spacing", Fields: []PanelField{
			style("margin-top", "Margin top"),
			style("margin-right", "Margin right"),
			style("margin-bottom", "Margin bottom"),
			style("margin-left", "Margin left"),
			style("padding-top", "Padding top"),
			style("padding-right", "Padding right"),
			style("padding-bottom", "Padding bottom"),
			style("padding-left", "Padding left"),
		}},
		{Name: "layout", Label: "Layout", Fields: []PanelField{
			sel("display", "Display", displayOptions),
			sel("position", "Position", positionOptions),
			style("width", "Width"),
			style("height", "Height"),
			sel("flex-direction", "Flex direction", flexDirOptions),
			sel("justify-content", "Justify", justifyOptions),
			sel("align-items", "Align items", alignOptions),
			style("gap", "Gap"),
		}},
		{Name: "border", Label: "Border", Fields: []PanelField{
			style("border-width", "Width"),
			sel("border-style", "Style", borderStyleOpts),
			color("border-color", "Color"),
			style("border-radius", "Radius"),
		}},
		{Name: "effects", Label: "Effects", Fields: []PanelField{
			style("opacity", "Opacity"),
			style("box-shadow", "Shadow"),
		}},
	}

	x, y := e.geometry.Position(e.vp)
	return PanelModel{
		Descriptor: desc,
		Groups:     groups,
		Children:   children,
		Geometry: resolvedGeometry{
			Dock:   e.geometry.Dock,
			X:      x,
			Y:      y,
			Width:  e.geometry.Width,
			Height: e.geometry.Height,
		},
		Theme: e.cfg.Theme,
	}, nil
}

// renderPanelLocked pushes the current panel model to the chrome, or
// hides the panel when nothing is selected.
func (e *Editor) renderPanelLocked(ctx context.Context) {
	if e.cfg.Chrome == nil {
		return
	}
	if e.selected == nil {
		if err := e.cfg.Chrome.HidePanel(ctx); err != nil {
			e.log.Warn("editor: hide panel", "error", err)
		}
		return
	}

	model, err := e.buildPanelModelLocked(ctx)
	if err != nil {
		e.log.Warn("editor: build panel model", "error", err)
		return
	}
	data, err := json.Marshal(model)
	if err != nil {
		e.log.Warn("editor: marshal panel model", "error", err)
		return
	}
	if err := e.cfg.Chrome.RenderPanel(ctx, data); err != nil {
		e.log.Warn("editor: render panel", "error", err)
	}
}

// ApplyField routes a panel edit to the matching mutator. Color values
// are normalized to #rrggbb before they hit the element.
func (e *Editor) ApplyField(ctx context.Context, field, value string) error {
	switch field {
	case "text":
		return e.SetText(ctx, value)
	case "value":
		return e.SetValue(ctx, value)
	case "color", "background-color", "border-color":
		return e.SetStyle(ctx, field, NormalizeColor(value))
	default:
		return e.SetStyle(ctx, field, value)
	}
}
