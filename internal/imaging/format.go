package imaging

// Format describes how the bytes of one pixel are laid out in a Buffer.
//
// The channel order is whatever the codec produced. Go's decoders deliver
// non-premultiplied R,G,B,A, so FormatRGBA8 is what LoadBuffer returns. The
// other formats exist for buffers built from raw memory of foreign origin.
type Format uint8

const (
	// FormatRGBA8 is 32-bit R,G,B,A (4 bytes per pixel, alpha not premultiplied).
	FormatRGBA8 Format = iota

	// FormatBGRA8 is 32-bit B,G,R,A (4 bytes per pixel).
	FormatBGRA8

	// FormatRGB8 is 24-bit R,G,B (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatBGR8 is 24-bit B,G,R (3 bytes per pixel, no alpha).
	FormatBGR8

	formatCount
)

// FormatInfo holds the byte layout of a pixel format.
//
// The channel fields are byte offsets within a single pixel. AlphaIndex is -1
// for formats without alpha.
type FormatInfo struct {
	BytesPerPixel int
	RedIndex      int
	GreenIndex    int
	BlueIndex     int
	AlphaIndex    int
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8: {BytesPerPixel: 4, RedIndex: 0, GreenIndex: 1, BlueIndex: 2, AlphaIndex: 3},
	FormatBGRA8: {BytesPerPixel: 4, RedIndex: 2, GreenIndex: 1, BlueIndex: 0, AlphaIndex: 3},
	FormatRGB8:  {BytesPerPixel: 3, RedIndex: 0, GreenIndex: 1, BlueIndex: 2, AlphaIndex: -1},
	FormatBGR8:  {BytesPerPixel: 3, RedIndex: 2, GreenIndex: 1, BlueIndex: 0, AlphaIndex: -1},
}

// Info returns the layout of f. Unknown formats yield the zero FormatInfo.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f.IsValid() && f.Info().AlphaIndex >= 0
}

// IsValid returns true if f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes returns the number of pixel bytes in a row of the given width,
// excluding any stride padding.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGB8:
		return "RGB8"
	case FormatBGR8:
		return "BGR8"
	default:
		return "Unknown"
	}
}
