// Package arena supplies the contiguous, linearly growable byte regions the
// allocator manages.
//
// An arena hands out space only at its end: Grow(n) extends the region by
// exactly n bytes and returns the offset where the new bytes begin. Regions
// never shrink and never move, so slices returned by Bytes stay valid for the
// life of the arena (later calls simply see a longer slice).
//
// Two implementations exist:
//
//   - Mem reserves its whole capacity as a Go byte slice up front.
//   - Mapped reserves address space with an anonymous private mapping. Pages
//     are committed by the kernel on first touch, so a large limit costs
//     nothing until the heap actually grows into it.
//
// Arenas are not safe for concurrent use.
package arena

import "errors"

// DefaultLimit is the region capacity used when a limit of zero is given.
const DefaultLimit = 20 << 20

var (
	// ErrExhausted is returned when a Grow would pass the arena limit.
	ErrExhausted = errors.New("arena: out of memory")
	// ErrNegativeGrow is returned for a negative Grow request.
	ErrNegativeGrow = errors.New("arena: negative grow")
	// ErrClosed is returned by operations on a closed arena.
	ErrClosed = errors.New("arena: closed")
)

// Arena is the region contract consumed by the allocator.
type Arena interface {
	// Grow extends the region by n bytes and returns the previous end offset.
	// The new bytes are zeroed. On failure the region is unchanged.
	Grow(n int) (int, error)

	// Bytes returns the current region. Its length is the sum of all
	// successful Grow calls.
	Bytes() []byte
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
