package imaging

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor reads the color of pixel (x, y) from buf.
//
// Coordinates are 0-based with origin at top-left. The channel bytes are read
// according to the buffer's format, so BGR-ordered buffers report the same
// colour as their RGB equivalents.
//
// # Errors
//
//   - Returns error if (x, y) is outside the buffer
//   - Returns error if the buffer has been released
func SampleColor(buf *Buffer, x, y int) (*ColorResult, error) {
	r, g, b, a, err := buf.RGBA(x, y)
	if err != nil {
		return nil, fmt.Errorf("coordinates (%d,%d): %w", x, y, err)
	}

	return &ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB:  RGBColor{R: r, G: g, B: b},
		RGBA: RGBAColor{R: r, G: g, B: b, A: a},
		HSL:  rgbToHSL(r, g, b),
	}, nil
}

// rgbToHSL converts 8-bit RGB values to integer HSL.
func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
