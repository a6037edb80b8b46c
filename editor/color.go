package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a parsed CSS color.
type Color struct {
	R, G, B uint8
	A       float64
}

// Hex renders the color as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa, rgb(...), rgba(...) and a
// small set of named colors.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}

	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGB(s)
	}

	return Color{}, fmt.Errorf("unrecognized color %q", s)
}

// NormalizeColor canonicalizes a parseable color to #rrggbb and leaves
// anything else untouched (gradients, var() references).
func NormalizeColor(s string) string {
	c, err := ParseColor(s)
	if err != nil {
		return s
	}
	return c.Hex()
}

func parseHex(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
	default:
		return Color{}, fmt.Errorf("bad hex color length %d", len(hex))
	}

	n, err := strconv.ParseUint(hex[:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad hex color: %w", err)
	}

	c := Color{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 1,
	}

	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:8], 16, 16)
		if err != nil {
			return Color{}, fmt.Errorf("bad hex alpha: %w", err)
		}
		c.A = float64(a) / 255
	}
	return c, nil
}

func parseRGB(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Color{}, fmt.Errorf("malformed rgb color %q", s)
	}

	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("rgb wants 3 or 4 components, got %d", len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("bad rgb component %q", parts[i])
		}
		ch[i] = uint8(n)
	}

	c := Color{R: ch[0], G: ch[1], B: ch[2], A: 1}

	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("bad alpha %q", parts[3])
		}
		c.A = a
	}
	return c, nil
}
