package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// FontStyle names one of the font faces registered on a Surface.
type FontStyle string

const (
	Regular FontStyle = "regular"
	Bold    FontStyle = "bold"
	Light   FontStyle = "light"
	Heavy   FontStyle = "heavy"
)

// FontStyles lists every face the builder may ask a surface for.
var FontStyles = []FontStyle{Regular, Bold, Light, Heavy}

// Align is the horizontal alignment of a line inside its area.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Color is an RGB color with 0-255 components.
type Color struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

var (
	Black = Color{}
	Gray  = Color{R: 100, G: 100, B: 100}
	White = Color{R: 255, G: 255, B: 255}
)

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// TextStyle selects the face, size and color used to draw or measure text.
type TextStyle struct {
	Font  FontStyle `json:"font"`
	Size  float64   `json:"size"`
	Color Color     `json:"color"`
}

// WithDefaults fills an unset face and size.
func (s TextStyle) WithDefaults() TextStyle {
	if s.Font == "" {
		s.Font = Regular
	}
	if s.Size <= 0 {
		s.Size = DefaultFontSize
	}
	return s
}

// RectStyle controls how a rectangle is stroked and filled. A nil color disables that part.
type RectStyle struct {
	Border    *Color
	Fill      *Color
	LineWidth float64
}

// Bordered returns a stroked, unfilled rectangle style.
func Bordered(c Color, width float64) RectStyle {
	return RectStyle{Border: &c, LineWidth: width}
}

// Filled returns a filled rectangle style without border.
func Filled(c Color) RectStyle {
	return RectStyle{Fill: &c}
}

const (
	DefaultFontSize = 12.0
	// HeadingSpacing is added below every heading line.
	HeadingSpacing = 8.0
)
