package persist

import (
	"fmt"
	"strings"

	imgcodec "github.com/disintegration/imaging"
)

// Format is an output container format.
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	TIFF
	BMP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension written for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	case TIFF:
		return ".tif"
	case BMP:
		return ".bmp"
	default:
		return ".png"
	}
}

func (f Format) codec() imgcodec.Format {
	switch f {
	case JPEG:
		return imgcodec.JPEG
	case GIF:
		return imgcodec.GIF
	case TIFF:
		return imgcodec.TIFF
	case BMP:
		return imgcodec.BMP
	default:
		return imgcodec.PNG
	}
}

// ParseFormat accepts a format name or extension, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	default:
		return PNG, fmt.Errorf("unsupported output format: %s", s)
	}
}
