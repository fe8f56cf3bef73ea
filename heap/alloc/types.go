package alloc

import (
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
)

// Ptr is a payload offset into the heap.
type Ptr uint32

// Nil is the null pointer. Offset 0 holds alignment padding and is never a payload.
const Nil Ptr = 0

// Block describes one heap block as seen by a walk.
type Block struct {
	Ptr       Ptr  // payload offset
	Size      int  // total size including both tags
	Allocated bool // allocated bit from the header
}

// PayloadSize returns the usable bytes between the tags.
func (b Block) PayloadSize() int { return b.Size - format.TagOverhead }

// Option configures an Allocator.
type Option func(*Allocator)

// WithChunkSize sets the minimum heap extension in bytes. It must be a
// positive multiple of 8 and at least 16.
func WithChunkSize(n int) Option {
	return func(a *Allocator) { a.chunk = n }
}

// WithStrict enables pointer validation on Free and Realloc.
func WithStrict(strict bool) Option {
	return func(a *Allocator) { a.strict = strict }
}

// WithLogger sets the logger used for growth and validation events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Allocator) { a.log = l }
}

// WithTracker reports every heap byte the allocator writes to dt.
func WithTracker(dt DirtyTracker) Option {
	return func(a *Allocator) { a.dt = dt }
}

// withOnGrow installs a hook called with the byte count of every heap
// extension. Test instrumentation only.
func withOnGrow(fn func(int)) Option {
	return func(a *Allocator) { a.onGrow = fn }
}
