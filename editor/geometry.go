package editor

// Panel geometry is pure data plus pure transitions. The chrome layer
// only applies resolved coordinates; every decision is made here so the
// behaviour is testable without a page.

// DockState is where the panel is anchored.
type DockState string

const (
	DockTopRight    DockState = "top-right"
	DockTopLeft     DockState = "top-left"
	DockBottomLeft  DockState = "bottom-left"
	DockBottomRight DockState = "bottom-right"
	DockFloating    DockState = "floating"
)

const (
	// MinPanelWidth and MinPanelHeight are the resize floors.
	MinPanelWidth  = 280.0
	MinPanelHeight = 320.0

	defaultPanelWidth  = 320.0
	defaultPanelHeight = 480.0

	// dockOffset is the constant inset from the anchored corner.
	dockOffset = 16.0

	// visibleMargin is the minimum part of the panel that must remain
	// inside the viewport while dragging.
	visibleMargin = 24.0
)

// Viewport is the page viewport in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PanelGeometry holds dock state, floating position and size. Floating
// coordinates persist while docked and are reused when the panel
// returns to floating. Created on first panel show, reset only on full
// teardown.
type PanelGeometry struct {
	Dock   DockState `json:"dock"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// DefaultGeometry is the initial panel placement.
func DefaultGeometry() PanelGeometry {
	return PanelGeometry{
		Dock:   DockTopRight,
		X:      dockOffset,
		Y:      dockOffset,
		Width:  defaultPanelWidth,
		Height: defaultPanelHeight,
	}
}

// CycleDock advances to the next dock state in the fixed order
// top-right, top-left, bottom-left, bottom-right, floating, and back.
func (g PanelGeometry) CycleDock() PanelGeometry {
	switch g.Dock {
	case DockTopRight:
		g.Dock = DockTopLeft
	case DockTopLeft:
		g.Dock = DockBottomLeft
	case DockBottomLeft:
		g.Dock = DockBottomRight
	case DockBottomRight:
		g.Dock = DockFloating
	default:
		g.Dock = DockTopRight
	}
	return g
}

// Position resolves the panel's top-left corner for the current dock
// state. Fixed docks anchor to their corner with a constant offset and
// ignore the stored floating coordinates.
func (g PanelGeometry) Position(vp Viewport) (x, y float64) {
	switch g.Dock {
	case DockTopLeft:
		return dockOffset, dockOffset
	case DockTopRight:
		return vp.Width - g.Width - dockOffset, dockOffset
	case DockBottomLeft:
		return dockOffset, vp.Height - g.Height - dockOffset
	case DockBottomRight:
		return vp.Width - g.Width - dockOffset, vp.Height - g.Height - dockOffset
	default:
		return clampPosition(g.X, g.Y, g.Width, vp)
	}
}

// clampPosition keeps at least visibleMargin of the panel inside the
// viewport on the left, right and bottom, and keeps the header below
// the top edge so it stays grabbable.
func clampPosition(x, y, width float64, vp Viewport) (float64, float64) {
	minX := visibleMargin - width
	maxX := vp.Width - visibleMargin
	if x < minX {
		x = minX
	}
	if x > maxX {
		x = maxX
	}
	if y < 0 {
		y = 0
	}
	maxY := vp.Height - visibleMargin
	if y > maxY {
		y = maxY
	}
	return x, y
}

// DragSession tracks an in-flight header drag. It captures the pointer
// origin and the panel's floating origin; Move produces updated
// geometry without mutating the session.
type DragSession struct {
	pointerX float64
	pointerY float64
	originX  float64
	originY  float64
}

// BeginDrag starts a drag at the given pointer position. The panel's
// current resolved position becomes the floating origin, so dragging a
// docked panel detaches it from where it currently sits.
func (g PanelGeometry) BeginDrag(pointerX, pointerY float64, vp Viewport) DragSession {
	x, y := g.Position(vp)
	return DragSession{pointerX: pointerX, pointerY: pointerY, originX: x, originY: y}
}

// Move applies the pointer delta. Any drag movement forces the dock
// state to floating.
func (s DragSession) Move(g PanelGeometry, pointerX, pointerY float64, vp Viewport) PanelGeometry {
	g.Dock = DockFloating
	x := s.originX + (pointerX - s.pointerX)
	y := s.originY + (pointerY - s.pointerY)
	g.X, g.Y = clampPosition(x, y, g.Width, vp)
	return g
}

// ResizeSession tracks an in-flight resize drag, independent of
// position dragging.
type ResizeSession struct {
	pointerX float64
	pointerY float64
	originW  float64
	originH  float64
}

// BeginResize starts a resize at the given pointer position.
func (g PanelGeometry) BeginResize(pointerX, pointerY float64) ResizeSession {
	return ResizeSession{pointerX: pointerX, pointerY: pointerY, originW: g.Width, originH: g.Height}
}

// Move applies the pointer delta to the panel size, floored at the
// minimum usable size and capped at the viewport.
func (s ResizeSession) Move(g PanelGeometry, pointerX, pointerY float64, vp Viewport) PanelGeometry {
	w := s.originW + (pointerX - s.pointerX)
	h := s.originH + (pointerY - s.pointerY)
	if w < MinPanelWidth {
		w = MinPanelWidth
	}
	if h < MinPanelHeight {
		h = MinPanelHeight
	}
	if vp.Width > 0 && w > vp.Width {
		w = vp.Width
	}
	if vp.Height > 0 && h > vp.Height {
		h = vp.Height
	}
	g.Width, g.Height = w, h
	return g
}
