package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// mustBuffer converts img to a buffer or fails the test.
func mustBuffer(t *testing.T, img image.Image) *Buffer {
	t.Helper()
	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	return buf
}

func TestSampleColor(t *testing.T) {
	buf := mustBuffer(t, createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255}))

	result, err := SampleColor(buf, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.RGBA.A != 255 {
		t.Errorf("RGBA.A: got %d, want 255", result.RGBA.A)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	buf := mustBuffer(t, createPatternImage(100, 100))

	tests := []struct {
		name    string
		x, y    int
		wantHex string
	}{
		{"red quadrant", 10, 10, "#FF0000"},
		{"green quadrant", 90, 10, "#00FF00"},
		{"blue quadrant", 10, 90, "#0000FF"},
		{"white quadrant", 90, 90, "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SampleColor(buf, tt.x, tt.y)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
		})
	}
}

func TestSampleColor_BGROrder(t *testing.T) {
	buf, err := NewBuffer(2, 1, FormatBGR8)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	copy(buf.Row(0), []byte{10, 20, 30, 40, 50, 60})

	result, err := SampleColor(buf, 1, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.RGB != (RGBColor{R: 60, G: 50, B: 40}) {
		t.Errorf("RGB: got %+v, want {60 50 40}", result.RGB)
	}
	if result.RGBA.A != 255 {
		t.Errorf("alpha for BGR8: got %d, want 255", result.RGBA.A)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	buf := mustBuffer(t, createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255}))

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x at width", 100, 50},
		{"y at height", 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(buf, tt.x, tt.y)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("got %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestSampleColor_Released(t *testing.T) {
	buf := mustBuffer(t, createInMemoryImage(4, 4, color.RGBA{1, 2, 3, 255}))
	buf.Release()

	if _, err := SampleColor(buf, 0, 0); !errors.Is(err, ErrReleased) {
		t.Errorf("got %v, want ErrReleased", err)
	}
}

func TestRgbToHSL(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSLColor
	}{
		{"red", 255, 0, 0, HSLColor{H: 0, S: 100, L: 50}},
		{"green", 0, 255, 0, HSLColor{H: 120, S: 100, L: 50}},
		{"blue", 0, 0, 255, HSLColor{H: 240, S: 100, L: 50}},
		{"white", 255, 255, 255, HSLColor{H: 0, S: 0, L: 100}},
		{"black", 0, 0, 0, HSLColor{H: 0, S: 0, L: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rgbToHSL(tt.r, tt.g, tt.b)
			if abs(got.H-tt.want.H) > 1 || abs(got.S-tt.want.S) > 1 || abs(got.L-tt.want.L) > 1 {
				t.Errorf("rgbToHSL(%d,%d,%d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
