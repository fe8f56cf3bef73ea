package alloc

import "github.com/joshuapare/heapkit/heap/dirty"

// DirtyTracker is a type alias for the canonical interface defined in heap/dirty.
type DirtyTracker = dirty.DirtyTracker

// Heap is the allocation surface replayed by trace drivers.
//
// Implementations:
//   - *Allocator: implicit free list with boundary tags
type Heap interface {
	// Alloc returns a payload of at least size bytes, or Nil for size 0.
	Alloc(size int) (Ptr, error)

	// Free returns a payload to the heap. Free(Nil) is a no-op.
	Free(p Ptr) error

	// Realloc resizes p by copying into a new block.
	Realloc(p Ptr, size int) (Ptr, error)

	// Payload returns the usable bytes of p.
	Payload(p Ptr) []byte
}

var _ Heap = (*Allocator)(nil)
