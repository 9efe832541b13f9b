package collection

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("collection: disposed")

	// ErrInvalidState is returned when the buffer arrays were never initialized,
	// i.e. the Collection was not built by Load or FromBuffers.
	ErrInvalidState = errors.New("collection: buffers not initialized")

	// ErrIndexOutOfRange is wrapped by *IndexError.
	ErrIndexOutOfRange = errors.New("collection: index out of range")

	// ErrSourceFileMissing is wrapped by *SourceFileError.
	ErrSourceFileMissing = errors.New("collection: source file missing")

	// ErrEmpty is returned when a collection would hold no images.
	ErrEmpty = errors.New("collection: no images")

	// ErrNilBuffer is returned when a nil buffer is installed or supplied.
	ErrNilBuffer = errors.New("collection: nil buffer")
)

// IndexError reports an index outside [0, Count).
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("collection: index %d out of range [0,%d)", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// SourceFileError reports a construction path that does not resolve to a file.
type SourceFileError struct {
	Path string
	Err  error
}

func (e *SourceFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("collection: source file %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("collection: source file %q missing", e.Path)
}

// Unwrap exposes both ErrSourceFileMissing and the underlying cause.
func (e *SourceFileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceFileMissing}
	}
	return []error{ErrSourceFileMissing, e.Err}
}
