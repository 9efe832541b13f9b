package imaging

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		factor       float64
		wantW, wantH int
	}{
		{"identity", 10, 20, 1.0, 10, 20},
		{"half", 10, 10, 0.5, 5, 5},
		{"double", 20, 20, 2.0, 40, 40},
		{"rounds half away from zero", 3, 5, 0.5, 2, 3},
		{"zero factor floors to one", 100, 100, 0, 1, 1},
		{"tiny factor floors to one", 100, 100, 0.0001, 1, 1},
		{"huge factor caps", 100, 10, 1e6, MaxDimension, MaxDimension},
		{"infinite factor caps", 10, 10, math.Inf(1), MaxDimension, MaxDimension},
		{"NaN factor floors to one", 10, 10, math.NaN(), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := TargetSize(tt.w, tt.h, tt.factor)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("TargetSize(%d,%d,%v) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.factor, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTargetSize_SignIndependent(t *testing.T) {
	for _, f := range []float64{0, 0.25, 0.5, 1, 1.7, 3, 250} {
		w1, h1 := TargetSize(37, 91, f)
		w2, h2 := TargetSize(37, 91, -f)
		if w1 != w2 || h1 != h2 {
			t.Errorf("factor %v: %dx%d vs %dx%d for negated factor", f, w1, h1, w2, h2)
		}
		if w1 < 1 || w1 > MaxDimension || h1 < 1 || h1 > MaxDimension {
			t.Errorf("factor %v: %dx%d outside [1, MaxDimension]", f, w1, h1)
		}
	}
}

func TestScale_Dimensions(t *testing.T) {
	small := mustBuffer(t, createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}))
	large := mustBuffer(t, createInMemoryImage(20, 20, color.RGBA{0, 0, 255, 255}))

	tests := []struct {
		name         string
		src          *Buffer
		factor       float64
		wantW, wantH int
	}{
		{"half", small, 0.5, 5, 5},
		{"double", large, 2.0, 40, 40},
		{"negative double", large, -2.0, 40, 40},
		{"zero", small, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Scale(tt.src, tt.factor, DefaultResizeCriteria())
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			if out.Width() != tt.wantW || out.Height() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width(), out.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScale_IdentityPreservesPixels(t *testing.T) {
	src := mustBuffer(t, createPatternImage(16, 12))

	for mode := range interpolationNames {
		t.Run(mode.String(), func(t *testing.T) {
			criteria := DefaultResizeCriteria()
			criteria.Interpolation = mode
			out, err := Scale(src, 1.0, criteria)
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			if !bytes.Equal(out.Pix(), src.Pix()) {
				t.Error("factor 1 changed pixel data")
			}
		})
	}
}

func TestScale_DoesNotMutateSource(t *testing.T) {
	src := mustBuffer(t, createPatternImage(8, 8))
	before := append([]byte(nil), src.Pix()...)

	if _, err := Scale(src, 3.0, DefaultResizeCriteria()); err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if !bytes.Equal(before, src.Pix()) {
		t.Error("Scale modified the source buffer")
	}
	if src.Released() {
		t.Error("Scale released the source buffer")
	}
}

func TestScale_KeepsFormatAndResolution(t *testing.T) {
	src, err := NewBuffer(6, 4, FormatBGRA8)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	src.SetResolution(Resolution{X: 300, Y: 72})

	out, err := Scale(src, 0.5, DefaultResizeCriteria())
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if out.Format() != FormatBGRA8 {
		t.Errorf("format: got %s, want BGRA8", out.Format())
	}
	if out.Resolution() != src.Resolution() {
		t.Errorf("resolution: got %+v, want %+v", out.Resolution(), src.Resolution())
	}
}

func TestScale_WrapsAtEdges(t *testing.T) {
	// Left column red, everything else black. With tile addressing the
	// rightmost output pixel blends in red from the opposite edge.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{0, 0, 0, 255})
	}
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src := mustBuffer(t, img)

	criteria := DefaultResizeCriteria()
	criteria.Interpolation = InterpolationBilinear
	out, err := Scale(src, 2.0, criteria)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}

	r, _, _, _, err := out.RGBA(out.Width()-1, 0)
	if err != nil {
		t.Fatalf("RGBA failed: %v", err)
	}
	if r == 0 {
		t.Error("rightmost pixel has no red; edge samples did not wrap")
	}
}

func TestScale_WrapModes(t *testing.T) {
	// Left column red, everything else black, scaled 2x bilinear.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{0, 0, 0, 255})
	}
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src := mustBuffer(t, img)

	tests := []struct {
		mode      WrapMode
		leftFull  bool
		rightZero bool
	}{
		// Tiling pulls black in from the right edge and red into the right edge.
		{WrapTile, false, false},
		// Mirroring reads each edge pixel back on itself.
		{WrapTileFlipXY, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			criteria := DefaultResizeCriteria()
			criteria.Interpolation = InterpolationBilinear
			criteria.Wrap = tt.mode
			out, err := Scale(src, 2.0, criteria)
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			left, _, _, _, _ := out.RGBA(0, 0)
			right, _, _, _, _ := out.RGBA(out.Width()-1, 0)
			if (left == 255) != tt.leftFull {
				t.Errorf("leftmost red = %d", left)
			}
			if (right == 0) != tt.rightZero {
				t.Errorf("rightmost red = %d", right)
			}
		})
	}
}

func TestScale_MatchesDirectResize(t *testing.T) {
	// Horizontal gradient, uniform down each column. Away from the edges the
	// padded resample must land on the same sample positions as a plain resize.
	img := image.NewNRGBA(image.Rect(0, 0, 40, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 6), 0, 0, 255})
		}
	}
	src := mustBuffer(t, img)

	tests := []struct {
		name   string
		mode   InterpolationMode
		factor float64
		inner  int // columns at each edge excluded from the comparison
	}{
		{"lanczos half", InterpolationHighQualityBicubic, 0.5, 4},
		{"lanczos 0.3", InterpolationHighQualityBicubic, 0.3, 4},
		{"bilinear 0.3", InterpolationBilinear, 0.3, 2},
		{"bicubic 1.7", InterpolationBicubic, 1.7, 6},
		{"nearest half", InterpolationNearestNeighbor, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := DefaultResizeCriteria()
			criteria.Interpolation = tt.mode
			out, err := Scale(src, tt.factor, criteria)
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			want := imaging.Resize(img, out.Width(), out.Height(), tt.mode.filter())

			for x := tt.inner; x < out.Width()-tt.inner; x++ {
				got, _, _, _, err := out.RGBA(x, 0)
				if err != nil {
					t.Fatalf("RGBA failed: %v", err)
				}
				exp := want.NRGBAAt(x, 0).R
				if d := int(got) - int(exp); d < -1 || d > 1 {
					t.Errorf("x=%d: red %d, want %d", x, got, exp)
				}
			}
		})
	}
}

func TestWrapMargin(t *testing.T) {
	tests := []struct {
		name     string
		src, dst int
		support  float64
	}{
		{"lanczos half", 10, 5, 3},
		{"nearest half", 40, 20, 0},
		{"coprime", 7, 3, 2},
		{"upscale", 4, 8, 1},
		{"identity", 16, 16, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := wrapMargin(tt.src, tt.dst, tt.support)
			if m*tt.dst%tt.src != 0 {
				t.Errorf("margin %d does not map to whole target pixels (%d -> %d)", m, tt.src, tt.dst)
			}
			scale := math.Max(1, float64(tt.src)/float64(tt.dst))
			if float64(m) < tt.support*scale {
				t.Errorf("margin %d smaller than filter reach %v", m, tt.support*scale)
			}
		})
	}
}

func TestMirror(t *testing.T) {
	tests := []struct{ v, want int }{
		{-3, 2}, {-2, 1}, {-1, 0}, {0, 0}, {3, 3}, {4, 3}, {5, 2}, {8, 0}, {9, 1},
	}
	for _, tt := range tests {
		if got := mirror(tt.v, 4); got != tt.want {
			t.Errorf("mirror(%d, 4) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestParseWrapMode(t *testing.T) {
	if m, err := ParseWrapMode("TILEFLIPXY"); err != nil || m != WrapTileFlipXY {
		t.Errorf("got (%v, %v), want TileFlipXY", m, err)
	}
	if _, err := ParseWrapMode("clamp"); err == nil {
		t.Error("ParseWrapMode should reject clamp")
	}
}

func TestScale_Released(t *testing.T) {
	src, _ := NewBuffer(2, 2, FormatRGBA8)
	src.Release()
	if _, err := Scale(src, 2, DefaultResizeCriteria()); err == nil {
		t.Error("Scale should fail for a released buffer")
	}
}

func TestParseInterpolation(t *testing.T) {
	mode, err := ParseInterpolation("nearestneighbor")
	if err != nil || mode != InterpolationNearestNeighbor {
		t.Errorf("got (%v, %v), want NearestNeighbor", mode, err)
	}
	if _, err := ParseInterpolation("sinc"); err == nil {
		t.Error("ParseInterpolation should reject unknown names")
	}
}
