package imaging

import (
	"errors"
	"image"
	"sync/atomic"
)

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("imaging: invalid dimensions")

	// ErrInvalidFormat is returned when the pixel format is not recognized.
	ErrInvalidFormat = errors.New("imaging: invalid format")

	// ErrInvalidStride is returned when stride is less than width*bytesPerPixel.
	ErrInvalidStride = errors.New("imaging: stride too small for width")

	// ErrDataTooSmall is returned when raw pixel memory is shorter than stride*height.
	ErrDataTooSmall = errors.New("imaging: data buffer too small")

	// ErrReleased is returned when a released buffer is used.
	ErrReleased = errors.New("imaging: buffer released")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("imaging: coordinates out of bounds")
)

// DefaultDPI is the resolution assigned to buffers whose source carried none.
const DefaultDPI = 96.0

// Resolution is the physical resolution of a buffer in dots per inch.
type Resolution struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Buffer is an in-memory raster addressed by row stride.
//
// Pixel bytes for row y start at y*Stride() and span Format().RowBytes(Width())
// bytes; anything between that and the next row is padding. A Buffer owns its
// pixel memory until Release is called, after which Pix returns nil and the
// buffer must not be used.
//
// Buffer is not safe for concurrent mutation. Concurrent reads are fine.
type Buffer struct {
	pix      []byte
	width    int
	height   int
	stride   int
	format   Format
	res      Resolution
	released atomic.Bool
}

// NewBuffer allocates a zeroed buffer with a tightly packed stride.
func NewBuffer(width, height int, format Format) (*Buffer, error) {
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return NewBufferWithStride(width, height, format, format.RowBytes(width))
}

// NewBufferWithStride allocates a zeroed buffer whose rows are stride bytes apart.
// Stride must be at least format.RowBytes(width).
func NewBufferWithStride(width, height int, format Format, stride int) (*Buffer, error) {
	if err := validateLayout(width, height, format, stride); err != nil {
		return nil, err
	}
	return &Buffer{
		pix:    make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
		res:    Resolution{X: DefaultDPI, Y: DefaultDPI},
	}, nil
}

// FromRaw wraps existing pixel memory without copying. The buffer takes
// ownership of data; the caller must not touch it afterwards.
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buffer, error) {
	if err := validateLayout(width, height, format, stride); err != nil {
		return nil, err
	}
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}
	return &Buffer{
		pix:    data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
		res:    Resolution{X: DefaultDPI, Y: DefaultDPI},
	}, nil
}

func validateLayout(width, height int, format Format, stride int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return ErrInvalidStride
	}
	return nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the byte distance between the starts of consecutive rows.
func (b *Buffer) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Resolution returns the buffer's DPI metadata.
func (b *Buffer) Resolution() Resolution { return b.res }

// SetResolution replaces the buffer's DPI metadata.
func (b *Buffer) SetResolution(r Resolution) { b.res = r }

// Pix returns the raw pixel memory, including row padding.
// Returns nil once the buffer has been released.
func (b *Buffer) Pix() []byte { return b.pix }

// Row returns the pixel bytes of row y without trailing padding.
// Returns nil if y is out of range or the buffer has been released.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height || b.pix == nil {
		return nil
	}
	start := y * b.stride
	return b.pix[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 if out of bounds.
func (b *Buffer) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// RGBA returns the colour of pixel (x, y) with 8-bit channels.
// Formats without alpha report a=255.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8, err error) {
	if b.Released() {
		return 0, 0, 0, 0, ErrReleased
	}
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0, ErrOutOfBounds
	}
	info := b.format.Info()
	px := b.pix[off : off+info.BytesPerPixel]
	a = 255
	if info.AlphaIndex >= 0 {
		a = px[info.AlphaIndex]
	}
	return px[info.RedIndex], px[info.GreenIndex], px[info.BlueIndex], a, nil
}

// Clone returns a deep copy of the buffer, padding and resolution included.
func (b *Buffer) Clone() (*Buffer, error) {
	if b.Released() {
		return nil, ErrReleased
	}
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{
		pix:    pix,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
		res:    b.res,
	}, nil
}

// Release drops the pixel memory. It returns true only for the call that
// actually released the buffer; later calls are no-ops returning false.
func (b *Buffer) Release() bool {
	if !b.released.CompareAndSwap(false, true) {
		return false
	}
	b.pix = nil
	return true
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released.Load()
}

// ToImage converts the buffer to a non-premultiplied *image.NRGBA.
//
// RGBA8 buffers are wrapped without copying, so writes to the returned image
// are visible in the buffer. Other formats are converted into fresh memory.
func (b *Buffer) ToImage() (*image.NRGBA, error) {
	if b.Released() {
		return nil, ErrReleased
	}
	rect := image.Rect(0, 0, b.width, b.height)
	if b.format == FormatRGBA8 {
		return &image.NRGBA{Pix: b.pix, Stride: b.stride, Rect: rect}, nil
	}

	dst := image.NewNRGBA(rect)
	info := b.format.Info()
	for y := 0; y < b.height; y++ {
		src := b.Row(y)
		out := dst.Pix[y*dst.Stride : y*dst.Stride+b.width*4]
		for x, o := 0, 0; x < len(src); x, o = x+info.BytesPerPixel, o+4 {
			out[o] = src[x+info.RedIndex]
			out[o+1] = src[x+info.GreenIndex]
			out[o+2] = src[x+info.BlueIndex]
			if info.AlphaIndex >= 0 {
				out[o+3] = src[x+info.AlphaIndex]
			} else {
				out[o+3] = 255
			}
		}
	}
	return dst, nil
}

// fromNRGBA copies img into a new buffer of the given format.
func fromNRGBA(img *image.NRGBA, format Format) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := NewBuffer(bounds.Dx(), bounds.Dy(), format)
	if err != nil {
		return nil, err
	}
	info := format.Info()
	for y := 0; y < buf.height; y++ {
		srcStart := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		src := img.Pix[srcStart : srcStart+buf.width*4]
		dst := buf.Row(y)
		if format == FormatRGBA8 {
			copy(dst, src)
			continue
		}
		for s, d := 0, 0; s < len(src); s, d = s+4, d+info.BytesPerPixel {
			dst[d+info.RedIndex] = src[s]
			dst[d+info.GreenIndex] = src[s+1]
			dst[d+info.BlueIndex] = src[s+2]
			if info.AlphaIndex >= 0 {
				dst[d+info.AlphaIndex] = src[s+3]
			}
		}
	}
	return buf, nil
}
