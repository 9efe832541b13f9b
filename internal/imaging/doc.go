// Package imaging provides the raster buffer type and the pure operations
// performed on it: decoding from disk, geometric scaling and colour sampling.
//
// # Buffers
//
// A Buffer is a width x height raster whose rows start Stride() bytes apart.
// Stride may exceed Format().RowBytes(Width()) when rows carry padding. The
// byte order of a pixel is fixed by its Format; buffers decoded from files are
// always FormatRGBA8 because that is the order Go's codecs produce.
//
// Buffers own their memory until Release is called. Release is idempotent and
// reports whether the call did the releasing, which lets owners prove every
// buffer is freed exactly once.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Scaling
//
// Scale computes target dimensions as round(d*|factor|) clamped to
// [1, MaxDimension] and resamples with the filter selected by ResizeCriteria.
// Samples that fall outside the source wrap around to the opposite edge.
//
// # Thread Safety
//
// Scale, SampleColor and the decoding helpers are stateless and may run
// concurrently on different buffers, or on the same buffer as long as nobody
// writes to it.
package imaging
