// Package transform runs per-pixel colour functions over image buffers.
//
// # Engine
//
// Engine.Apply never touches its source. It clones the buffer, splits the
// rows into contiguous shards (at most MaxParallelism of them, sizes differing
// by at most one row) and runs each shard on its own goroutine:
//
//	e := transform.New(transform.WithMaxParallelism(4))
//	out, err := e.Apply(src, transform.Grayscale())
//
// Every pixel is visited exactly once. The r, g and b values a PixelFunc
// leaves behind are clamped to [0, 255] before they are stored; alpha and any
// row padding are left as they were. A panic inside a PixelFunc is recovered
// and returned as an error, and the partially written copy is released.
//
// # Presets
//
// Grayscale, Invert, Brightness, Contrast, HueShift and Saturate cover the
// common adjustments. Preset resolves them by name for the CLI and the MCP
// server. HueShift and Saturate round-trip through HSL using go-colorful.
package transform
