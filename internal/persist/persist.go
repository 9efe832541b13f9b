// Package persist encodes buffers and writes them to a destination directory,
// one independent unit of work per buffer.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	imgcodec "github.com/disintegration/imaging"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-batch-tools/internal/imaging"
	"github.com/ironsheep/image-batch-tools/internal/logging"
)

// ErrPathNotFound is returned when the destination is blank, missing (and may
// not be created) or not a directory.
var ErrPathNotFound = errors.New("persist: destination path not found")

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// Item is one buffer to write, named after the file it came from.
type Item struct {
	Buffer     *imaging.Buffer
	SourcePath string
}

// Options controls SaveAll.
type Options struct {
	// Destination is the output directory. Required.
	Destination string

	// Root is stripped from each SourcePath to build the output name, keeping
	// any subdirectories below it. Sources outside Root, or an empty Root,
	// keep only their base name.
	Root string

	// Suffix is appended to each output file's stem, e.g. "_resized" turns
	// a.jpg into a_resized.png. Default none.
	Suffix string

	// Format selects the encoder and the output extension. Default PNG.
	Format Format

	// JPEGQuality is 1-100. Zero means DefaultJPEGQuality.
	JPEGQuality int

	// CreateIfMissing creates Destination when it does not exist.
	CreateIfMissing bool

	// MaxConcurrency bounds concurrent encodes. Zero or less means GOMAXPROCS.
	MaxConcurrency int
}

// SaveAll encodes every item into opts.Destination.
//
// Items are written concurrently, at most opts.MaxConcurrency at a time. A
// failure on one item does not stop the others. Once ctx is done no further
// items are scheduled and in-flight encodes abort at their next write.
// Files already written stay on disk.
//
// Output names are fixed before the first write; sources that would land on
// the same file are told apart by a numeric stem suffix. The returned paths
// are the files that were written completely, in item order. The error joins every per-item failure and ctx.Err() if cancelled.
func SaveAll(ctx context.Context, items []Item, opts Options) ([]string, error) {
	dest, err := prepareDestination(opts.Destination, opts.CreateIfMissing)
	if err != nil {
		return nil, err
	}

	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	log := logging.Logger()

	paths := planOutputs(dest, items, opts)
	written := make([]string, len(items))
	errs := make([]error, len(items))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		i, item := i, item
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			path := paths[i]
			if err := saveOne(ctx, item.Buffer, path, opts); err != nil {
				log.Warn("save failed", "path", path, "error", err)
				errs[i] = fmt.Errorf("persist: save %s: %w", path, err)
				return nil
			}
			log.Debug("saved image", "path", path)
			written[i] = path
			return nil
		})
	}
	_ = g.Wait()

	err = errors.Join(errs...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.Join(err, ctxErr)
	}
	return lo.Compact(written), err
}

func prepareDestination(dest string, create bool) (string, error) {
	if strings.TrimSpace(dest) == "" {
		return "", fmt.Errorf("%w: destination is blank", ErrPathNotFound)
	}
	dest = filepath.Clean(dest)

	info, err := os.Stat(dest)
	switch {
	case err == nil && info.IsDir():
		return dest, nil
	case err == nil:
		return "", fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, dest)
	case errors.Is(err, os.ErrNotExist) && create:
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", fmt.Errorf("persist: create %s: %w", dest, err)
		}
		return dest, nil
	default:
		return "", fmt.Errorf("%w: %s: %v", ErrPathNotFound, dest, err)
	}
}

// planOutputs assigns every item a distinct output path before any file is
// written. A name already claimed by an earlier item gets _1, _2, ... appended
// to its stem. Names are compared case-insensitively.
func planOutputs(dest string, items []Item, opts Options) []string {
	ext := opts.Suffix + opts.Format.Ext()
	paths := make([]string, len(items))
	taken := make(map[string]bool, len(items))
	for i, item := range items {
		p := outputPath(dest, opts.Root, item.SourcePath, ext, i)
		stem := strings.TrimSuffix(p, ext)
		for n := 1; taken[strings.ToLower(p)]; n++ {
			p = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		taken[strings.ToLower(p)] = true
		paths[i] = p
	}
	return paths
}

// outputPath maps a source path to its file under dest, replacing the source
// extension with ext.
func outputPath(dest, root, source, ext string, index int) string {
	if source == "" {
		return filepath.Join(dest, fmt.Sprintf("image_%03d%s", index, ext))
	}
	rel := filepath.Base(source)
	if root != "" {
		if r, err := filepath.Rel(root, source); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}
	return filepath.Join(dest, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

func saveOne(ctx context.Context, buf *imaging.Buffer, path string, opts Options) (err error) {
	if buf == nil {
		return errors.New("nil buffer")
	}
	img, err := buf.ToImage()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	return imgcodec.Encode(ctxWriter{ctx: ctx, w: f}, img, opts.Format.codec(), imgcodec.JPEGQuality(quality))
}

// ctxWriter fails writes once its context is done.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw ctxWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}
