package transform

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-batch-tools/internal/imaging"
)

// ErrNilFunc is returned when Apply is called without a pixel function.
var ErrNilFunc = errors.New("transform: nil pixel function")

// PixelFunc edits the colour channels of one pixel.
//
// row is the pixel's row index within the buffer. r, g and b hold the current
// 8-bit channel values on entry; whatever they hold on return is clamped to
// [0, 255] and written back. Alpha is never exposed.
//
// A PixelFunc is called from several goroutines at once and must not touch
// shared state without its own synchronization.
type PixelFunc func(row int, r, g, b *int)

// Engine applies a PixelFunc to every pixel of a buffer copy, splitting the
// rows into contiguous shards processed in parallel.
type Engine struct {
	maxParallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxParallelism bounds the number of shards processed at once.
// Values <= 0 select GOMAXPROCS.
func WithMaxParallelism(n int) Option {
	return func(e *Engine) {
		e.maxParallelism = n
	}
}

// New creates an engine. Without options it uses GOMAXPROCS workers.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxParallelism <= 0 {
		e.maxParallelism = runtime.GOMAXPROCS(0)
	}
	return e
}

// MaxParallelism returns the configured worker bound.
func (e *Engine) MaxParallelism() int {
	return e.maxParallelism
}

// Apply returns a transformed copy of src. src itself is left untouched.
//
// Rows are divided into at most MaxParallelism contiguous shards. Each shard
// is owned by one goroutine and visited in ascending row order; there is no
// ordering between shards. After every call to fn the three channels are
// clamped to [0, 255] before being stored.
//
// If fn panics, the copy is released and the panic is returned as an error.
func (e *Engine) Apply(src *imaging.Buffer, fn PixelFunc) (*imaging.Buffer, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	dst, err := src.Clone()
	if err != nil {
		return nil, err
	}

	info := dst.Format().Info()
	var g errgroup.Group
	g.SetLimit(e.maxParallelism)
	for _, s := range shards(dst.Height(), e.maxParallelism) {
		s := s
		g.Go(func() error {
			return applyShard(dst, info, s, fn)
		})
	}
	if err := g.Wait(); err != nil {
		dst.Release()
		return nil, err
	}
	return dst, nil
}

// shard is a half-open row range [start, end).
type shard struct {
	start, end int
}

// shards splits height rows into at most n contiguous, disjoint ranges whose
// sizes differ by at most one row.
func shards(height, n int) []shard {
	if height <= 0 {
		return nil
	}
	if n > height {
		n = height
	}
	if n < 1 {
		n = 1
	}
	size, rem := height/n, height%n
	out := make([]shard, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, shard{start: start, end: end})
		start = end
	}
	return out
}

func applyShard(buf *imaging.Buffer, info imaging.FormatInfo, s shard, fn PixelFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("transform: pixel function panicked in rows [%d,%d): %v", s.start, s.end, p)
		}
	}()

	bpp := info.BytesPerPixel
	for y := s.start; y < s.end; y++ {
		row := buf.Row(y)
		for x := 0; x+bpp <= len(row); x += bpp {
			px := row[x : x+bpp]
			r := int(px[info.RedIndex])
			g := int(px[info.GreenIndex])
			b := int(px[info.BlueIndex])

			fn(y, &r, &g, &b)

			px[info.RedIndex] = clampChannel(r)
			px[info.GreenIndex] = clampChannel(g)
			px[info.BlueIndex] = clampChannel(b)
		}
	}
	return nil
}

func clampChannel(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
