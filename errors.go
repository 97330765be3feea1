package emgfx

import (
	"errors"
	"fmt"
)

// Sentinel errors for the emgfx package. The aaf subpackage defines its own
// FormatError and DecodeError; everything surfaced here is engine or object
// state.
var (
	// ErrNoSource is returned when an operation needs a source (animation
	// container, image descriptor, label text) that has not been set.
	ErrNoSource = errors.New("emgfx: no source set")

	// ErrDeleted is returned when an operation is invoked on a deleted
	// object.
	ErrDeleted = errors.New("emgfx: object deleted")
)

// StateError reports an operation invoked on the wrong object kind or before
// required setup. The failed call has no side effects.
type StateError struct {
	Op   string
	Want Kind
	Got  Kind
}

func (e *StateError) Error() string {
	return fmt.Sprintf("emgfx: %s: object is %s, want %s", e.Op, e.Got, e.Want)
}

// ResourceError reports an allocation or capacity failure. The object is
// left in its last good state; existing buffers are never partially
// overwritten.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("emgfx: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// stateErr builds a StateError for a kind-checked operation.
func stateErr(op string, want, got Kind) error {
	return &StateError{Op: op, Want: want, Got: got}
}
