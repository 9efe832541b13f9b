// Package discovery finds image files under a root directory.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Mode selects how deep Find looks.
type Mode int

const (
	// TopLevel only inspects the entries directly inside root.
	TopLevel Mode = iota
	// Recursive walks every subdirectory of root.
	Recursive
)

func (m Mode) String() string {
	if m == Recursive {
		return "recursive"
	}
	return "top-level"
}

// DefaultExtensions lists the container formats the decoder set understands.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Find returns the regular files under root whose extension is in exts, in
// lexical path order. Extensions match case-insensitively and may be given
// with or without the leading dot. A nil or empty exts uses DefaultExtensions.
func Find(root string, exts []string, mode Mode) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discovery: %s is not a directory", root)
	}

	wanted := normalizeExtensions(exts)
	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && mode != Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if lo.Contains(wanted, strings.ToLower(filepath.Ext(path))) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: walk %s: %w", root, err)
	}
	return found, nil
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := lo.Map(exts, func(e string, _ int) string {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		return e
	})
	return lo.Uniq(lo.Compact(normalized))
}
