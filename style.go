package slideshow

import (
	"image/color"
	"strconv"
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack       = Color{ARGB: "FF000000"}
	ColorWhite       = Color{ARGB: "FFFFFFFF"}
	ColorTransparent = Color{ARGB: "00000000"}
)

var namedColors = map[string]string{
	"black":  "000000",
	"white":  "FFFFFF",
	"red":    "FF0000",
	"green":  "008000",
	"blue":   "0000FF",
	"yellow": "FFFF00",
	"gray":   "808080",
	"grey":   "808080",
	"orange": "FFA500",
	"purple": "800080",
}

// NewColor creates a Color from a hex string. It accepts "RGB", "RRGGBB"
// and "AARRGGBB" forms with an optional leading "#". Invalid input yields
// black.
func NewColor(hex string) Color {
	c, ok := ParseColor(hex)
	if !ok {
		return ColorBlack
	}
	return c
}

// ParseColor parses hex colors ("#rgb", "#rrggbb", "aarrggbb"), CSS
// "rgb(r,g,b)" / "rgba(r,g,b,a)" and a few color names.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, false
	}
	if named, ok := namedColors[strings.ToLower(s)]; ok {
		return Color{ARGB: "FF" + named}, true
	}
	if strings.EqualFold(s, "transparent") {
		return ColorTransparent, true
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb") {
		return parseCSSRGB(lower)
	}

	hex := strings.ToUpper(strings.TrimPrefix(s, "#"))
	switch len(hex) {
	case 3:
		hex = "FF" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
		hex = "FF" + hex
	}
	if !isValidARGB(hex) {
		return Color{}, false
	}
	return Color{ARGB: hex}, true
}

func parseCSSRGB(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end <= open {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return Color{}, false
		}
		rgb[i] = uint8(v)
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		alpha = uint8(a*255 + 0.5)
	}
	return FromNRGBA(color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}), true
}

// FromNRGBA converts a non-premultiplied color into a Color.
func FromNRGBA(c color.NRGBA) Color {
	const digits = "0123456789ABCDEF"
	b := make([]byte, 8)
	for i, v := range []uint8{c.A, c.R, c.G, c.B} {
		b[i*2] = digits[v>>4]
		b[i*2+1] = digits[v&0x0F]
	}
	return Color{ARGB: string(b)}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// NRGBA returns the color as a non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: parseHexByte(c.ARGB, 2),
		G: parseHexByte(c.ARGB, 4),
		B: parseHexByte(c.ARGB, 6),
		A: parseHexByte(c.ARGB, 0),
	}
}

// RGB returns the 6-character RGB portion of the color.
func (c Color) RGB() string {
	if len(c.ARGB) >= 8 {
		return c.ARGB[2:]
	}
	return "000000"
}

// CSS returns the color in CSS rgba() notation.
func (c Color) CSS() string {
	v := c.NRGBA()
	return "rgba(" + strconv.Itoa(int(v.R)) + "," + strconv.Itoa(int(v.G)) + "," +
		strconv.Itoa(int(v.B)) + "," + strconv.FormatFloat(float64(v.A)/255, 'f', 3, 64) + ")"
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool {
	return c.ARGB == ""
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// TextStyle describes how a block of text is drawn. FontSize is in logical
// canvas pixels.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	Bold       bool
	Italic     bool
	Underline  bool
	Strike     bool
	Color      Color
}

// WithSize returns a copy of the style with a different font size.
func (s TextStyle) WithSize(size float64) TextStyle {
	s.FontSize = size
	return s
}

// WithColor returns a copy of the style with a different color.
func (s TextStyle) WithColor(c Color) TextStyle {
	s.Color = c
	return s
}

// componentStyle derives the text style of a component, filling unset
// fields from base.
func componentStyle(c Component, base TextStyle) TextStyle {
	st := base
	if c.FontFamily != "" {
		st.FontFamily = c.FontFamily
	}
	if c.FontSize > 0 {
		st.FontSize = c.FontSize
	}
	if c.FontWeight != "" {
		st.Bold = c.Bold()
	}
	if c.FontStyle != "" {
		st.Italic = c.Italic()
	}
	if c.TextDecoration != "" {
		st.Underline = c.Underline()
		st.Strike = c.Strikethrough()
	}
	if col, ok := ParseColor(c.Color); ok {
		st.Color = col
	}
	return st
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	HorizontalLeft   HorizontalAlignment = "l"
	HorizontalCenter HorizontalAlignment = "ctr"
	HorizontalRight  HorizontalAlignment = "r"
)

// VerticalAlignment represents vertical text alignment.
type VerticalAlignment string

const (
	VerticalTop    VerticalAlignment = "t"
	VerticalMiddle VerticalAlignment = "ctr"
	VerticalBottom VerticalAlignment = "b"
)

// withAttrs overlays the non-zero rich text attributes on the style.
func (s TextStyle) withAttrs(a TextAttrs) TextStyle {
	if a.Bold {
		s.Bold = true
	}
	if a.Italic {
		s.Italic = true
	}
	if a.Underline {
		s.Underline = true
	}
	if a.Strike {
		s.Strike = true
	}
	if c, ok := ParseColor(a.Color); ok {
		s.Color = c
	}
	if a.FontSize > 0 {
		s.FontSize = a.FontSize
	}
	if a.FontFamily != "" {
		s.FontFamily = a.FontFamily
	}
	return s
}
