package discovery

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Type is a bit set of image container types, an alternative to spelling
// out extensions.
type Type uint8

const (
	PNG Type = 1 << iota
	JPEG
	GIF
	BMP
	TIFF
	WebP

	All = PNG | JPEG | GIF | BMP | TIFF | WebP
)

type typeEntry struct {
	t    Type
	name string
	exts []string
}

var typeExtensions = []typeEntry{
	{PNG, "png", []string{".png"}},
	{JPEG, "jpeg", []string{".jpg", ".jpeg"}},
	{GIF, "gif", []string{".gif"}},
	{BMP, "bmp", []string{".bmp"}},
	{TIFF, "tiff", []string{".tif", ".tiff"}},
	{WebP, "webp", []string{".webp"}},
}

// Extensions returns the extensions covered by t, in a stable order.
// The empty set yields nil, which Find treats as DefaultExtensions.
func (t Type) Extensions() []string {
	var exts []string
	for _, te := range typeExtensions {
		if t&te.t != 0 {
			exts = append(exts, te.exts...)
		}
	}
	return exts
}

func (t Type) String() string {
	if t == All {
		return "all"
	}
	names := lo.FilterMap(typeExtensions, func(te typeEntry, _ int) (string, bool) {
		return te.name, t&te.t != 0
	})
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseTypes combines type names such as "png", "jpg" or "all" into a set.
func ParseTypes(names []string) (Type, error) {
	var t Type
	for _, n := range names {
		switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(n)), ".") {
		case "all":
			t |= All
		case "png":
			t |= PNG
		case "jpg", "jpeg":
			t |= JPEG
		case "gif":
			t |= GIF
		case "bmp":
			t |= BMP
		case "tif", "tiff":
			t |= TIFF
		case "webp":
			t |= WebP
		default:
			return 0, fmt.Errorf("discovery: unknown image type %q", n)
		}
	}
	return t, nil
}
