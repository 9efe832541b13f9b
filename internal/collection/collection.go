// Package collection holds a fixed set of images as parallel arrays of
// original and modified buffers plus their source paths.
//
// A Collection owns every buffer it holds. Originals never change after
// construction; a modified slot changes only through Swap, which releases the
// previous occupant. Dispose releases everything exactly once, after which
// every method fails with ErrDisposed.
//
// Swap on the same index from several goroutines must be serialized by the
// caller. Reads and swaps on different indices may run concurrently.
package collection

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/ironsheep/image-batch-tools/internal/imaging"
	"github.com/ironsheep/image-batch-tools/internal/logging"
)

// Collection is the owning container for a set of images.
//
// The zero value has no buffers; its methods report ErrInvalidState.
type Collection struct {
	paths    []string
	original []*imaging.Buffer
	modified []*imaging.Buffer
	disposed atomic.Bool
}

// Load decodes every path into a new collection.
//
// Loading fails fast: the first path that does not exist yields a
// *SourceFileError, the first that cannot be decoded yields a wrapped decode
// error, and in both cases every buffer already decoded is released. No
// partially populated collection is ever returned.
func Load(paths []string) (*Collection, error) {
	if len(paths) == 0 {
		return nil, ErrEmpty
	}

	buffers := make([]*imaging.Buffer, 0, len(paths))
	fail := func(err error) (*Collection, error) {
		for _, b := range buffers {
			b.Release()
		}
		return nil, err
	}

	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			return fail(&SourceFileError{Path: p, Err: err})
		}
		if stat.IsDir() {
			return fail(&SourceFileError{Path: p, Err: errors.New("is a directory")})
		}
		buf, err := imaging.LoadBuffer(p)
		if err != nil {
			return fail(fmt.Errorf("collection: load %q: %w", p, err))
		}
		buffers = append(buffers, buf)
	}

	c, err := FromBuffers(paths, buffers)
	if err != nil {
		return fail(err)
	}
	logging.Logger().Info("collection loaded", "count", len(paths))
	return c, nil
}

// FromBuffers builds a collection from already decoded originals and takes
// ownership of them. Each modified slot starts as a copy of its original.
func FromBuffers(paths []string, originals []*imaging.Buffer) (*Collection, error) {
	if len(paths) != len(originals) {
		return nil, fmt.Errorf("collection: %d paths but %d buffers", len(paths), len(originals))
	}
	if len(paths) == 0 {
		return nil, ErrEmpty
	}

	modified := make([]*imaging.Buffer, len(originals))
	for i, orig := range originals {
		if orig == nil {
			return nil, fmt.Errorf("collection: original %d: %w", i, ErrNilBuffer)
		}
		clone, err := orig.Clone()
		if err != nil {
			return nil, fmt.Errorf("collection: original %d: %w", i, err)
		}
		modified[i] = clone
	}

	return &Collection{
		paths:    append([]string(nil), paths...),
		original: append([]*imaging.Buffer(nil), originals...),
		modified: modified,
	}, nil
}

// check reports whether the collection can be used at all.
func (c *Collection) check() error {
	if c.disposed.Load() {
		return ErrDisposed
	}
	if c.original == nil || c.modified == nil || c.paths == nil {
		return ErrInvalidState
	}
	return nil
}

func (c *Collection) checkIndex(i int) error {
	if err := c.check(); err != nil {
		return err
	}
	if i < 0 || i >= len(c.original) {
		return &IndexError{Index: i, Count: len(c.original)}
	}
	return nil
}

// Count returns the number of managed images.
func (c *Collection) Count() (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	return len(c.original), nil
}

// ValidateIndices checks every index before any work is done, so batch
// callers never act on a prefix of a bad request.
func (c *Collection) ValidateIndices(indices []int) error {
	for _, i := range indices {
		if err := c.checkIndex(i); err != nil {
			return err
		}
	}
	return c.check()
}

// Original returns the buffer decoded from Path(i).
func (c *Collection) Original(i int) (*imaging.Buffer, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	return c.original[i], nil
}

// Modified returns the current occupant of modified slot i.
func (c *Collection) Modified(i int) (*imaging.Buffer, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	return c.modified[i], nil
}

// Path returns the source path of image i.
func (c *Collection) Path(i int) (string, error) {
	if err := c.checkIndex(i); err != nil {
		return "", err
	}
	return c.paths[i], nil
}

// Paths returns a copy of all source paths in collection order.
func (c *Collection) Paths() ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return append([]string(nil), c.paths...), nil
}

// Swap installs b in modified slot i, releases the buffer it replaces and
// returns b. The collection owns b from here on.
//
// Swapping a slot's current occupant back in is a no-op.
func (c *Collection) Swap(i int, b *imaging.Buffer) (*imaging.Buffer, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNilBuffer
	}

	old := c.modified[i]
	if old == b {
		return b, nil
	}
	if old != c.original[i] {
		old.Release()
	}
	c.modified[i] = b
	return b, nil
}

// Dispose releases every original and modified buffer. Only the first call
// does anything.
func (c *Collection) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	released := 0
	for _, set := range [][]*imaging.Buffer{c.original, c.modified} {
		for _, b := range set {
			if b != nil && b.Release() {
				released++
			}
		}
	}
	logging.Logger().Info("collection disposed", "count", len(c.original), "released", released)
}

// Disposed reports whether Dispose has been called.
func (c *Collection) Disposed() bool {
	return c.disposed.Load()
}
