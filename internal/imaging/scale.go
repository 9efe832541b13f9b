package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// MaxDimension caps the width and height produced by Scale.
const MaxDimension = 50000

// TargetSize returns the dimensions Scale produces for a width x height source.
//
// The sign of factor is ignored. Each dimension is round(d*|factor|) clamped to
// [1, MaxDimension], so a zero factor yields 1x1 rather than an empty image.
func TargetSize(width, height int, factor float64) (int, int) {
	f := math.Abs(factor)
	return scaledDim(width, f), scaledDim(height, f)
}

func scaledDim(d int, f float64) int {
	v := math.Round(float64(d) * f)
	switch {
	case math.IsNaN(v) || v < 1:
		return 1
	case v > MaxDimension:
		return MaxDimension
	default:
		return int(v)
	}
}

// Scale returns a new buffer holding src resampled by factor.
//
// The resampling filter comes from criteria.Interpolation. Samples that fall
// outside the source are addressed by criteria.Wrap: with WrapTile a filter
// footprint at the right border reads pixels from the left border, with
// WrapTileFlipXY it reads the border mirrored back on itself.
// The result keeps the source's pixel format and resolution metadata.
//
// src is never modified. Replacing and releasing the old buffer is the
// caller's job.
func Scale(src *Buffer, factor float64, criteria ResizeCriteria) (*Buffer, error) {
	img, err := src.ToImage()
	if err != nil {
		return nil, err
	}

	w, h := src.Width(), src.Height()
	tw, th := TargetSize(w, h, factor)
	filter := criteria.Interpolation.filter()

	// Pad with wrapped pixels wider than the filter reaches, resample the
	// padded canvas, then cut the target rectangle back out. The margins map
	// onto whole target pixels so the padded canvas scales by exactly tw/w.
	mx := wrapMargin(w, tw, filter.Support)
	my := wrapMargin(h, th, filter.Support)
	padded := wrapPad(img, mx, my, criteria.Wrap)

	tmx := mx * tw / w
	tmy := my * th / h
	resized := imaging.Resize(padded, tw+2*tmx, th+2*tmy, filter)
	cropped := imaging.Crop(resized, image.Rect(tmx, tmy, tmx+tw, tmy+th))

	out, err := fromNRGBA(cropped, src.Format())
	if err != nil {
		return nil, err
	}
	out.SetResolution(src.Resolution())
	return out, nil
}

// wrapMargin returns how many source pixels to pad past an edge when mapping
// src pixels onto dst pixels. The margin covers the filter's reach and is a
// multiple of src/gcd(src, dst), so margin*dst/src is a whole number.
func wrapMargin(src, dst int, support float64) int {
	scale := 1.0
	if dst < src {
		scale = float64(src) / float64(dst)
	}
	reach := int(math.Ceil(support*scale)) + 1
	unit := src / gcd(src, dst)
	return (reach + unit - 1) / unit * unit
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// wrapPad returns img surrounded by mx columns and my rows of content
// addressed by mode.
func wrapPad(img *image.NRGBA, mx, my int, mode WrapMode) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w+2*mx, h+2*my))
	outW := out.Rect.Dx()

	parallel.Line(out.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			sy := mode.address(y-my, h)
			srcRow := img.Pix[sy*img.Stride : sy*img.Stride+w*4]
			dstRow := out.Pix[y*out.Stride : y*out.Stride+outW*4]
			for x := 0; x < outW; x++ {
				sx := mode.address(x-mx, w) * 4
				copy(dstRow[x*4:x*4+4], srcRow[sx:sx+4])
			}
		}
	})
	return out
}

// wrap maps v into [0, n) with tile semantics.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// mirror maps v into [0, n), reflecting on every other period.
func mirror(v, n int) int {
	v = wrap(v, 2*n)
	if v >= n {
		v = 2*n - 1 - v
	}
	return v
}
