// Package manager ties a collection to the scaling and pixel transform
// engines and to persistence, and guards every operation against use after
// disposal.
package manager

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ironsheep/image-batch-tools/internal/collection"
	"github.com/ironsheep/image-batch-tools/internal/discovery"
	"github.com/ironsheep/image-batch-tools/internal/imaging"
	"github.com/ironsheep/image-batch-tools/internal/logging"
	"github.com/ironsheep/image-batch-tools/internal/persist"
	"github.com/ironsheep/image-batch-tools/internal/transform"
)

// BufferSet selects which side of the collection an operation reads.
type BufferSet int

const (
	// Modified is the working copy each slot's edits land in.
	Modified BufferSet = iota
	// Original is the buffer decoded at load time.
	Original
)

func (s BufferSet) String() string {
	if s == Original {
		return "original"
	}
	return "modified"
}

// SaveConfig controls Save. The zero value writes modified buffers as PNG
// into Destination, which must already exist.
type SaveConfig struct {
	// Set picks the buffers to write. Default Modified.
	Set BufferSet

	// Destination is the output directory. Required.
	Destination string

	// Format is the output container. Default PNG.
	Format persist.Format

	// Suffix is appended to every output file stem. Default none.
	Suffix string

	// JPEGQuality applies to JPEG output. Zero means persist.DefaultJPEGQuality.
	JPEGQuality int

	// CreateIfMissing creates Destination when it does not exist. Default false.
	CreateIfMissing bool

	// DisposeOnSuccess disposes the whole collection once every buffer was
	// written without error. Default false.
	DisposeOnSuccess bool

	// MaxConcurrency bounds concurrent encodes. Zero means GOMAXPROCS.
	MaxConcurrency int
}

// Manager is the public face of an image collection.
//
// Operations on different indices may run concurrently. Operations that
// replace the same index must be serialized by the caller.
type Manager struct {
	images *collection.Collection
	engine *transform.Engine
	root   string
	log    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithEngine replaces the default pixel transform engine.
func WithEngine(e *transform.Engine) Option {
	return func(m *Manager) { m.engine = e }
}

// WithLogger replaces the package-wide logger for this manager.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithRoot sets the directory that output names are made relative to.
func WithRoot(root string) Option {
	return func(m *Manager) { m.root = root }
}

// New wraps an existing collection. The manager takes ownership of it.
func New(images *collection.Collection, opts ...Option) *Manager {
	m := &Manager{images: images}
	for _, opt := range opts {
		opt(m)
	}
	if m.engine == nil {
		m.engine = transform.New()
	}
	if m.log == nil {
		m.log = logging.Logger()
	}
	return m
}

// Open loads every path into a new collection.
func Open(paths []string, opts ...Option) (*Manager, error) {
	images, err := collection.Load(paths)
	if err != nil {
		return nil, err
	}
	return New(images, opts...), nil
}

// OpenDir discovers images under root and loads them. root becomes the base
// for output names unless WithRoot overrides it.
func OpenDir(root string, exts []string, mode discovery.Mode, opts ...Option) (*Manager, error) {
	paths, err := discovery.Find(root, exts, mode)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found under %s: %w", root, collection.ErrEmpty)
	}
	return Open(paths, append([]Option{WithRoot(root)}, opts...)...)
}

func (m *Manager) guard() error {
	if m.images.Disposed() {
		return collection.ErrDisposed
	}
	return nil
}

// Count returns the number of managed images.
func (m *Manager) Count() (int, error) {
	if err := m.guard(); err != nil {
		return 0, err
	}
	return m.images.Count()
}

// Original returns the decoded buffer of image i.
func (m *Manager) Original(i int) (*imaging.Buffer, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.images.Original(i)
}

// Modified returns the current working buffer of image i.
func (m *Manager) Modified(i int) (*imaging.Buffer, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.images.Modified(i)
}

// Path returns the source path of image i.
func (m *Manager) Path(i int) (string, error) {
	if err := m.guard(); err != nil {
		return "", err
	}
	return m.images.Path(i)
}

// Paths returns all source paths in collection order.
func (m *Manager) Paths() ([]string, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.images.Paths()
}

// Root returns the directory output names are made relative to.
func (m *Manager) Root() string { return m.root }

// ScaleAndReplace scales original i by factor and installs the result in
// modified slot i.
func (m *Manager) ScaleAndReplace(i int, factor float64, criteria imaging.ResizeCriteria) (*imaging.Buffer, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	src, err := m.images.Original(i)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Scale(src, factor, criteria)
	if err != nil {
		return nil, fmt.Errorf("scale image %d: %w", i, err)
	}
	if _, err := m.images.Swap(i, out); err != nil {
		out.Release()
		return nil, err
	}
	m.log.Debug("scaled image", "index", i, "factor", factor,
		"interpolation", criteria.Interpolation, "width", out.Width(), "height", out.Height())
	return out, nil
}

// ScaleIndices scales each listed image. Like TransformIndices, all indices
// are validated before the first scale.
func (m *Manager) ScaleIndices(indices []int, factor float64, criteria imaging.ResizeCriteria) error {
	if err := m.guard(); err != nil {
		return err
	}
	if err := m.images.ValidateIndices(indices); err != nil {
		return err
	}
	for _, i := range indices {
		if _, err := m.ScaleAndReplace(i, factor, criteria); err != nil {
			return err
		}
	}
	return nil
}

// ScaleAllAndReplace runs ScaleAndReplace for every image in order.
func (m *Manager) ScaleAllAndReplace(factor float64, criteria imaging.ResizeCriteria) error {
	n, err := m.Count()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := m.ScaleAndReplace(i, factor, criteria); err != nil {
			return err
		}
	}
	return nil
}

// TransformAndReplace runs fn over a copy of original i and installs the
// result in modified slot i.
func (m *Manager) TransformAndReplace(i int, fn transform.PixelFunc) (*imaging.Buffer, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	src, err := m.images.Original(i)
	if err != nil {
		return nil, err
	}
	out, err := m.engine.Apply(src, fn)
	if err != nil {
		return nil, fmt.Errorf("transform image %d: %w", i, err)
	}
	if _, err := m.images.Swap(i, out); err != nil {
		out.Release()
		return nil, err
	}
	m.log.Debug("transformed image", "index", i, "workers", m.engine.MaxParallelism())
	return out, nil
}

// TransformIndices transforms each listed image. Every index is validated
// before any buffer is touched; each result is swapped in as it completes.
func (m *Manager) TransformIndices(indices []int, fn transform.PixelFunc) error {
	if err := m.guard(); err != nil {
		return err
	}
	if err := m.images.ValidateIndices(indices); err != nil {
		return err
	}
	for _, i := range indices {
		if _, err := m.TransformAndReplace(i, fn); err != nil {
			return err
		}
	}
	return nil
}

// TransformAll transforms every image in order.
func (m *Manager) TransformAll(fn transform.PixelFunc) error {
	n, err := m.Count()
	if err != nil {
		return err
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return m.TransformIndices(indices, fn)
}

// Save writes the selected buffers via the persist package and returns the
// paths actually written. With cfg.DisposeOnSuccess the collection is
// disposed after a fully successful save.
//
// Save blocks until every scheduled write finished or ctx is done; files
// written before a cancellation or failure stay on disk.
func (m *Manager) Save(ctx context.Context, cfg SaveConfig) ([]string, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	n, err := m.images.Count()
	if err != nil {
		return nil, err
	}

	items := make([]persist.Item, n)
	for i := 0; i < n; i++ {
		var buf *imaging.Buffer
		if cfg.Set == Original {
			buf, err = m.images.Original(i)
		} else {
			buf, err = m.images.Modified(i)
		}
		if err != nil {
			return nil, err
		}
		path, err := m.images.Path(i)
		if err != nil {
			return nil, err
		}
		items[i] = persist.Item{Buffer: buf, SourcePath: path}
	}

	written, err := persist.SaveAll(ctx, items, persist.Options{
		Destination:     cfg.Destination,
		Root:            m.root,
		Format:          cfg.Format,
		Suffix:          cfg.Suffix,
		JPEGQuality:     cfg.JPEGQuality,
		CreateIfMissing: cfg.CreateIfMissing,
		MaxConcurrency:  cfg.MaxConcurrency,
	})
	if err != nil {
		return written, err
	}
	m.log.Info("collection saved", "set", cfg.Set, "count", len(written), "destination", cfg.Destination)

	if cfg.DisposeOnSuccess {
		m.images.Dispose()
	}
	return written, nil
}

// Close disposes the collection and every buffer it owns. It is safe to call
// more than once.
func (m *Manager) Close() error {
	m.images.Dispose()
	return nil
}

// Disposed reports whether the collection has been disposed.
func (m *Manager) Disposed() bool {
	return m.images.Disposed()
}
