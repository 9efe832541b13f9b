package imaging

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// CompositingMode controls how scaled pixels are combined with the destination.
type CompositingMode int

const (
	CompositingSourceOver CompositingMode = iota
	CompositingSourceCopy
)

func (m CompositingMode) String() string {
	switch m {
	case CompositingSourceOver:
		return "SourceOver"
	case CompositingSourceCopy:
		return "SourceCopy"
	default:
		return fmt.Sprintf("CompositingMode(%d)", int(m))
	}
}

// Quality is shared by the compositing, smoothing and pixel-offset settings.
type Quality int

const (
	QualityDefault Quality = iota
	QualityHighSpeed
	QualityHighQuality
	QualityNone
)

func (q Quality) String() string {
	switch q {
	case QualityDefault:
		return "Default"
	case QualityHighSpeed:
		return "HighSpeed"
	case QualityHighQuality:
		return "HighQuality"
	case QualityNone:
		return "None"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// InterpolationMode selects the resampling filter used when scaling.
type InterpolationMode int

const (
	InterpolationDefault InterpolationMode = iota
	InterpolationLow
	InterpolationHigh
	InterpolationBilinear
	InterpolationBicubic
	InterpolationNearestNeighbor
	InterpolationHighQualityBilinear
	InterpolationHighQualityBicubic
)

var interpolationNames = map[InterpolationMode]string{
	InterpolationDefault:             "Default",
	InterpolationLow:                 "Low",
	InterpolationHigh:                "High",
	InterpolationBilinear:            "Bilinear",
	InterpolationBicubic:             "Bicubic",
	InterpolationNearestNeighbor:     "NearestNeighbor",
	InterpolationHighQualityBilinear: "HighQualityBilinear",
	InterpolationHighQualityBicubic:  "HighQualityBicubic",
}

func (m InterpolationMode) String() string {
	if name, ok := interpolationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("InterpolationMode(%d)", int(m))
}

// ParseInterpolation resolves a mode by name, case-insensitively.
func ParseInterpolation(name string) (InterpolationMode, error) {
	for mode, n := range interpolationNames {
		if strings.EqualFold(n, name) {
			return mode, nil
		}
	}
	return InterpolationDefault, fmt.Errorf("unknown interpolation mode: %s", name)
}

// filter maps the mode onto an imaging resampling filter.
func (m InterpolationMode) filter() imaging.ResampleFilter {
	switch m {
	case InterpolationNearestNeighbor:
		return imaging.NearestNeighbor
	case InterpolationHigh, InterpolationBicubic:
		return imaging.CatmullRom
	case InterpolationHighQualityBicubic:
		return imaging.Lanczos
	default:
		return imaging.Linear
	}
}

// WrapMode selects how Scale addresses samples that fall past an edge.
type WrapMode int

const (
	// WrapTile repeats the image: x maps to x mod width.
	WrapTile WrapMode = iota
	// WrapTileFlipXY repeats the image mirrored on every other tile, so the
	// sample just past an edge is the edge pixel itself.
	WrapTileFlipXY
)

func (m WrapMode) String() string {
	switch m {
	case WrapTile:
		return "Tile"
	case WrapTileFlipXY:
		return "TileFlipXY"
	default:
		return fmt.Sprintf("WrapMode(%d)", int(m))
	}
}

// ParseWrapMode resolves "tile" or "tileflipxy", case-insensitively.
func ParseWrapMode(name string) (WrapMode, error) {
	for _, m := range []WrapMode{WrapTile, WrapTileFlipXY} {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return WrapTile, fmt.Errorf("unknown wrap mode: %s", name)
}

// address maps coordinate v onto [0, n).
func (m WrapMode) address(v, n int) int {
	if m == WrapTileFlipXY {
		return mirror(v, n)
	}
	return wrap(v, n)
}

// ResizeCriteria bundles the quality settings forwarded to the resampler.
//
// Interpolation and Wrap change the output; the remaining fields are carried
// through untouched for callers that record or forward them.
type ResizeCriteria struct {
	Compositing        CompositingMode   `json:"compositing"`
	CompositingQuality Quality           `json:"compositing_quality"`
	Interpolation      InterpolationMode `json:"interpolation"`
	Smoothing          Quality           `json:"smoothing"`
	PixelOffset        Quality           `json:"pixel_offset"`
	Wrap               WrapMode          `json:"wrap"`
}

// DefaultResizeCriteria returns the high-quality configuration used when the
// caller has no preference.
func DefaultResizeCriteria() ResizeCriteria {
	return ResizeCriteria{
		Compositing:        CompositingSourceCopy,
		CompositingQuality: QualityHighQuality,
		Interpolation:      InterpolationHighQualityBicubic,
		Smoothing:          QualityHighQuality,
		PixelOffset:        QualityHighQuality,
		Wrap:               WrapTile,
	}
}
