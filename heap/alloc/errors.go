package alloc

import "errors"

var (
	// ErrInit indicates the arena could not supply the initial heap.
	ErrInit = errors.New("alloc: heap initialization failed")

	// ErrNoMemory indicates the heap could not grow to satisfy a request.
	ErrNoMemory = errors.New("alloc: out of memory")

	// ErrBadSize indicates a negative request or an invalid chunk size.
	ErrBadSize = errors.New("alloc: bad size")

	// ErrBadPtr indicates a pointer that does not name a block of this heap.
	// Only reported in strict mode.
	ErrBadPtr = errors.New("alloc: bad pointer")

	// ErrDoubleFree indicates a pointer to a block that is already free.
	// Only reported in strict mode.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrCorrupt indicates a block walk ran into an impossible tag.
	ErrCorrupt = errors.New("alloc: corrupt heap")
)
