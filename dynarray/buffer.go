// Package dynarray implements a growable, contiguous buffer of a single
// element type. It is used to stage vertex and index data before it is
// handed to the GPU as one block of memory.
//
// Growth is geometric (1, 2, 4, 8, ...) unless the caller asks for an exact
// capacity. Shrinking is never automatic: Resize to a smaller length only
// lowers the logical length and keeps the storage around.
//
// A Buffer is not safe for concurrent use.
package dynarray

import (
	"fmt"
	"iter"
	"unsafe"
)

// noCopy makes go vet complain about copies of a Buffer.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer owns a single contiguous allocation of Cap() elements, of which the
// first Len() are valid. The zero value is an empty buffer without any
// allocation.
//
// A Buffer must not be copied. Use Clone for a deep copy or Take to move the
// storage into a new Buffer.
type Buffer[T any] struct {
	_ noCopy

	// len(entries) is the capacity. nil iff the capacity is zero.
	entries []T
	length  int

	maxBytes      int
	reallocations int
}

// New creates a buffer with room for initialCapacity elements.
// No allocation happens if initialCapacity is zero.
func New[T any](initialCapacity int, opts ...Option) (*Buffer[T], error) {
	if initialCapacity < 0 {
		return nil, fmt.Errorf("initial capacity %d: %w", initialCapacity, ErrNegativeSize)
	}

	var conf config
	for _, opt := range opts {
		opt(&conf)
	}

	b := &Buffer[T]{maxBytes: conf.maxBytes}

	if initialCapacity > 0 {
		entries, err := b.allocate(initialCapacity)
		if err != nil {
			return nil, err
		}

		b.entries = entries
	}

	return b, nil
}

// Len returns the number of valid elements.
func (b *Buffer[T]) Len() int {
	return b.length
}

// Cap returns the number of elements the buffer can hold without reallocating.
func (b *Buffer[T]) Cap() int {
	return len(b.entries)
}

// Reallocations returns how often the backing storage was replaced by Grow.
func (b *Buffer[T]) Reallocations() int {
	return b.reallocations
}

// ElementSize returns the size of one element in bytes.
func (b *Buffer[T]) ElementSize() uintptr {
	return elementSize[T]()
}

// SizeBytes returns the size of the valid elements in bytes.
func (b *Buffer[T]) SizeBytes() int {
	return b.length * int(elementSize[T]())
}

// Append stores value at index Len(), growing the buffer first if it is full.
func (b *Buffer[T]) Append(value T) error {
	if b.length == len(b.entries) {
		if err := b.Grow(0); err != nil {
			return fmt.Errorf("append: %w", err)
		}
	}

	b.entries[b.length] = value
	b.length++

	return nil
}

// Grow replaces the backing storage with a larger one and copies the valid
// elements over, keeping their indices.
//
// If exactCapacity is non zero, the new capacity is exactly exactCapacity.
// Otherwise the capacity doubles, or becomes one for an empty buffer.
// Grow never shrinks: a target that does not exceed Cap() is a no-op.
func (b *Buffer[T]) Grow(exactCapacity int) error {
	if exactCapacity < 0 {
		return fmt.Errorf("grow to %d: %w", exactCapacity, ErrNegativeSize)
	}

	capacity := len(b.entries)

	newCapacity := 1
	switch {
	case exactCapacity > 0:
		newCapacity = exactCapacity

	case capacity > 0:
		if capacity > maxInt/2 {
			return fmt.Errorf("double capacity %d: %w", capacity, ErrOutOfMemory)
		}

		newCapacity = 2 * capacity
	}

	if newCapacity <= capacity {
		return nil
	}

	entries, err := b.allocate(newCapacity)
	if err != nil {
		return err
	}

	copy(entries, b.entries[:b.length])

	// drop references held by the old storage
	clear(b.entries)

	b.entries = entries
	b.reallocations++

	return nil
}

// Resize sets the length of the buffer to newLength.
//
// Growing fills the new elements with zero values. The capacity ends up where
// appending them one at a time would have taken it under the doubling policy,
// but the storage is replaced at most once. Shrinking only lowers the length:
// the elements past the new length stay in storage, are no longer valid and
// will be overwritten by the next Append or Resize.
//
// If Resize fails, the buffer is left unchanged.
func (b *Buffer[T]) Resize(newLength int) error {
	if newLength < 0 {
		return fmt.Errorf("resize to %d: %w", newLength, ErrNegativeSize)
	}

	if newLength <= b.length {
		b.length = newLength
		return nil
	}

	capacity, err := doubledCapacity(len(b.entries), newLength)
	if err != nil {
		return fmt.Errorf("resize to %d: %w", newLength, err)
	}

	if err := b.Grow(capacity); err != nil {
		return fmt.Errorf("resize to %d: %w", newLength, err)
	}

	// stale elements of an earlier shrink
	clear(b.entries[b.length:newLength])
	b.length = newLength

	return nil
}

// doubledCapacity returns the first capacity of the doubling sequence
// starting at capacity that holds at least length elements.
func doubledCapacity(capacity, length int) (int, error) {
	if capacity == 0 {
		capacity = 1
	}

	for capacity < length {
		if capacity > maxInt/2 {
			return 0, fmt.Errorf("double capacity %d: %w", capacity, ErrOutOfMemory)
		}

		capacity *= 2
	}

	return capacity, nil
}

// Reserve grows the buffer to exactly newCapacity if it currently holds less.
// The length is not changed.
func (b *Buffer[T]) Reserve(newCapacity int) error {
	if newCapacity < 0 {
		return fmt.Errorf("reserve %d: %w", newCapacity, ErrNegativeSize)
	}

	if newCapacity > len(b.entries) {
		return b.Grow(newCapacity)
	}

	return nil
}

// At returns a pointer to the element at index. The pointer is valid until
// the buffer grows or is released.
func (b *Buffer[T]) At(index int) (*T, error) {
	if index < 0 || index >= b.length {
		return nil, &IndexError{Index: index, Length: b.length}
	}

	return &b.entries[index], nil
}

// MustAt is like At but panics with an *IndexError if index is out of range.
func (b *Buffer[T]) MustAt(index int) *T {
	if index < 0 || index >= b.length {
		panic(&IndexError{Index: index, Length: b.length})
	}

	return &b.entries[index]
}

// Get returns a copy of the element at index.
func (b *Buffer[T]) Get(index int) (T, error) {
	ptr, err := b.At(index)
	if err != nil {
		var zero T
		return zero, err
	}

	return *ptr, nil
}

// Set overwrites the element at index.
func (b *Buffer[T]) Set(index int, value T) error {
	ptr, err := b.At(index)
	if err != nil {
		return err
	}

	*ptr = value
	return nil
}

// Data returns the valid elements as one contiguous slice backed by the
// buffers storage. The slice stays valid as long as the buffer does not grow.
// Its capacity is limited to its length, appending to it never writes into
// the buffer.
func (b *Buffer[T]) Data() []T {
	if b.entries == nil {
		return nil
	}

	return b.entries[:b.length:b.length]
}

// All iterates over the valid elements in order.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for idx := 0; idx < b.length; idx++ {
			if !yield(idx, b.entries[idx]) {
				return
			}
		}
	}
}

// ClearUnused zeroes the stale elements between Len() and Cap().
func (b *Buffer[T]) ClearUnused() {
	clear(b.entries[b.length:])
}

// Clone returns a deep copy with the same length and capacity.
func (b *Buffer[T]) Clone() (*Buffer[T], error) {
	return b.CloneFunc(nil)
}

// CloneFunc is like Clone, but copies every valid element using clone.
// Use this for element types that own memory of their own.
func (b *Buffer[T]) CloneFunc(clone func(T) T) (*Buffer[T], error) {
	c := &Buffer[T]{maxBytes: b.maxBytes}

	if len(b.entries) == 0 {
		return c, nil
	}

	entries, err := c.allocate(len(b.entries))
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}

	if clone == nil {
		copy(entries, b.entries[:b.length])
	} else {
		for idx, value := range b.entries[:b.length] {
			entries[idx] = clone(value)
		}
	}

	c.entries = entries
	c.length = b.length

	return c, nil
}

// Take moves the storage into a new Buffer. b is empty afterward,
// as if Release had been called.
func (b *Buffer[T]) Take() *Buffer[T] {
	moved := &Buffer[T]{
		entries:       b.entries,
		length:        b.length,
		maxBytes:      b.maxBytes,
		reallocations: b.reallocations,
	}

	b.entries = nil
	b.length = 0
	b.reallocations = 0

	return moved
}

// Release drops the backing storage and resets the reallocation count.
// Calling Release on an empty or already released buffer does nothing.
// The buffer can be reused afterward, it behaves like a new one.
func (b *Buffer[T]) Release() {
	clear(b.entries)

	b.entries = nil
	b.length = 0
	b.reallocations = 0
}

func elementSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
