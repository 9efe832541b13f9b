package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// LoadBuffer decodes the image file at path into a new RGBA8 buffer.
//
// Decoding is delegated to the imaging codec set (PNG, JPEG, GIF, TIFF, BMP)
// plus WebP. EXIF orientation is applied so the buffer is upright.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not in a supported container format
func LoadBuffer(path string) (*Buffer, error) {
	img, err := imaging.Open(filepath.Clean(path), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img)
}

// FromImage copies any image.Image into a new RGBA8 buffer.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, ErrInvalidDimensions
	}
	return fromNRGBA(imaging.Clone(img), FormatRGBA8)
}

// ImageInfo contains metadata about a managed image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// PixelFormat is the in-memory byte layout, e.g. "RGBA8".
	PixelFormat string `json:"pixel_format"`

	// Container is derived from the file extension: "png", "jpeg", "gif",
	// "tiff", "bmp", "webp", or "unknown".
	Container string `json:"container"`

	// HasAlpha indicates whether the buffer carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the source file on disk, or 0 if it could
	// not be stat'd.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Resolution is the buffer's DPI metadata.
	Resolution Resolution `json:"resolution"`
}

// Describe returns metadata for a buffer that was loaded from path.
func Describe(buf *Buffer, path string) (*ImageInfo, error) {
	if buf.Released() {
		return nil, ErrReleased
	}
	var size int64
	if stat, err := os.Stat(path); err == nil {
		size = stat.Size()
	}
	return &ImageInfo{
		Width:         buf.Width(),
		Height:        buf.Height(),
		PixelFormat:   buf.Format().String(),
		Container:     containerFromExt(path),
		HasAlpha:      buf.Format().HasAlpha(),
		FileSizeBytes: size,
		Resolution:    buf.Resolution(),
	}, nil
}

func containerFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
