package dynarray

import (
	"fmt"
	"runtime"
)

const maxInt = int(^uint(0) >> 1)

// Option configures a Buffer created with New.
type Option func(*config)

type config struct {
	maxBytes int
}

// WithMaxBytes limits the size of the backing storage to maxBytes.
// Growing beyond the limit fails with ErrOutOfMemory. Zero means no limit.
func WithMaxBytes(maxBytes int) Option {
	return func(c *config) {
		c.maxBytes = max(maxBytes, 0)
	}
}

// allocate returns zeroed storage for capacity elements. A failing
// allocation is reported as ErrOutOfMemory instead of crashing later.
func (b *Buffer[T]) allocate(capacity int) (entries []T, err error) {
	size := int(elementSize[T]())

	if size > 0 && capacity > maxInt/size {
		return nil, fmt.Errorf("allocate %d elements of %d bytes: %w", capacity, size, ErrOutOfMemory)
	}

	if b.maxBytes > 0 && capacity*size > b.maxBytes {
		return nil, fmt.Errorf(
			"allocate %d bytes, limit is %d bytes: %w",
			capacity*size, b.maxBytes, ErrOutOfMemory,
		)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		rtErr, ok := r.(runtime.Error)
		if !ok {
			panic(r)
		}

		entries = nil
		err = fmt.Errorf("allocate %d elements: %w: %s", capacity, ErrOutOfMemory, rtErr)
	}()

	return make([]T, capacity), nil
}
