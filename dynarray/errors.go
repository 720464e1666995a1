package dynarray

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned if the backing storage could not be allocated.
	ErrOutOfMemory = errors.New("dynarray: out of memory")

	// ErrNegativeSize is returned for negative lengths and capacities.
	ErrNegativeSize = errors.New("dynarray: negative size")

	// ErrIndexOutOfRange is wrapped by every IndexError.
	ErrIndexOutOfRange = errors.New("dynarray: index out of range")
)

// IndexError reports an access outside of [0, Length).
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dynarray: index %d out of range [0, %d)", e.Index, e.Length)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
