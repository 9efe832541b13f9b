package transform

import (
	"fmt"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Grayscale replaces each pixel with its ITU-R BT.601 luminance
// (0.299*R + 0.587*G + 0.114*B).
func Grayscale() PixelFunc {
	return func(_ int, r, g, b *int) {
		y := (*r*299 + *g*587 + *b*114 + 500) / 1000
		*r, *g, *b = y, y, y
	}
}

// Invert replaces every channel c with 255-c.
func Invert() PixelFunc {
	return func(_ int, r, g, b *int) {
		*r, *g, *b = 255-*r, 255-*g, 255-*b
	}
}

// Brightness adds delta to every channel. Results outside [0, 255] are left
// for the engine to clamp.
func Brightness(delta int) PixelFunc {
	return func(_ int, r, g, b *int) {
		*r += delta
		*g += delta
		*b += delta
	}
}

// Contrast scales each channel's distance from mid-grey (128) by factor.
func Contrast(factor float64) PixelFunc {
	stretch := func(c int) int {
		return int(math.Round((float64(c)-128)*factor + 128))
	}
	return func(_ int, r, g, b *int) {
		*r, *g, *b = stretch(*r), stretch(*g), stretch(*b)
	}
}

// HueShift rotates each pixel's hue by degrees in HSL space.
func HueShift(degrees float64) PixelFunc {
	return hslFunc(func(h, s, l float64) (float64, float64, float64) {
		h = math.Mod(h+degrees, 360)
		if h < 0 {
			h += 360
		}
		return h, s, l
	})
}

// Saturate multiplies each pixel's HSL saturation by factor, capped at 1.
func Saturate(factor float64) PixelFunc {
	return hslFunc(func(h, s, l float64) (float64, float64, float64) {
		return h, math.Min(math.Max(s*factor, 0), 1), l
	})
}

func hslFunc(adjust func(h, s, l float64) (float64, float64, float64)) PixelFunc {
	return func(_ int, r, g, b *int) {
		c := colorful.Color{R: float64(*r) / 255, G: float64(*g) / 255, B: float64(*b) / 255}
		h, s, l := adjust(c.Hsl())
		r8, g8, b8 := colorful.Hsl(h, s, l).Clamped().RGB255()
		*r, *g, *b = int(r8), int(g8), int(b8)
	}
}

// presets maps names to constructors taking a single amount argument.
var presets = map[string]func(amount float64) PixelFunc{
	"grayscale":  func(float64) PixelFunc { return Grayscale() },
	"invert":     func(float64) PixelFunc { return Invert() },
	"brightness": func(a float64) PixelFunc { return Brightness(int(math.Round(a))) },
	"contrast":   Contrast,
	"hue":        HueShift,
	"saturate":   Saturate,
}

// Preset resolves a stock pixel function by name. amount is the delta for
// "brightness", the factor for "contrast" and "saturate", degrees for "hue",
// and ignored by "grayscale" and "invert".
func Preset(name string, amount float64) (PixelFunc, error) {
	ctor, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return ctor(amount), nil
}

// PresetNames lists the names accepted by Preset in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
