package reactive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPath is returned when a read or write is given an empty path.
	ErrEmptyPath = errors.New("reactive: empty path")

	// ErrReadOnly is returned when writing to a computed property.
	ErrReadOnly = errors.New("reactive: property is read-only")

	// ErrNotMapping is returned by Wrap when the root is not a mapping.
	ErrNotMapping = errors.New("reactive: root is not a mapping")
)

// PathResolutionError reports a dotted path whose intermediate segment is
// absent or does not hold a mapping.
type PathResolutionError struct {
	// Path is the full dotted path being resolved.
	Path string

	// Segment is the segment that could not be traversed.
	Segment string

	// Index is the position of Segment within the path.
	Index int
}

// Error implements the error interface.
func (e *PathResolutionError) Error() string {
	parent := "<root>"
	if e.Index > 0 {
		parent = strings.Join(strings.Split(e.Path, ".")[:e.Index], ".")
	}
	return fmt.Sprintf("reactive: cannot resolve %q: %q is not a mapping under %s", e.Path, e.Segment, parent)
}

// CallbackError wraps a failure raised by a tracker's callback (or the
// updater it drives) while a dependency set was notifying.
type CallbackError struct {
	// Path is the path observed by the failing tracker.
	Path string

	// Value is the new value the callback was invoked with.
	Value any

	// Err is the returned error, or a synthesized error for a panic.
	Err error

	// Panicked is true when the callback panicked instead of returning.
	Panicked bool
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("reactive: callback for %q panicked: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("reactive: callback for %q failed: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CallbackError) Unwrap() error {
	return e.Err
}
