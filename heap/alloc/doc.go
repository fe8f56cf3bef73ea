// Package alloc implements an implicit free-list heap allocator over a
// growable arena.
//
// # Overview
//
// Every block carries a boundary tag at both ends: a 4-byte header and an
// identical 4-byte footer recording the block size and an allocated bit.
// Blocks tile the heap back to back, so the heap itself is the free list. A
// permanently allocated prologue block and a zero-size epilogue header bound
// the walk at either end.
//
//	 0x00 pad | 0x04 prologue hdr | 0x08 prologue ftr | hdr payload ftr | ... | epilogue
//
// # Operations
//
//   - Alloc(size): first-fit search from the heap start. The chosen block is
//     split when the remainder can hold a minimum block (16 bytes). On a miss
//     the heap grows by max(request, chunk) bytes.
//   - Free(p): clears the allocated bit and merges with free neighbors using
//     the footer of the previous block and the header of the next.
//   - Realloc(p, size): allocate, copy, free. The old block is untouched when
//     the allocation fails.
//
// Pointers are payload offsets (Ptr). Payloads are 8-byte aligned. Nil is
// never a payload.
//
// # Usage Example
//
//	ar := arena.NewMem(0)
//	a, err := alloc.New(ar)
//	if err != nil {
//	    return err
//	}
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Payload(p), data)
//
//	p, err = a.Realloc(p, 400)
//	...
//	_ = a.Free(p)
//
// # Invalid Pointers
//
// Freeing a pointer twice or one that Alloc never returned is undefined. The
// default path never reads outside the arena but may corrupt the heap. With
// WithStrict(true) every Free and Realloc first locates the block by walking
// the heap and fails with ErrBadPtr or ErrDoubleFree instead.
//
// # Debug Logging
//
// Set HEAPKIT_LOG_ALLOC=1 to log heap growth and refusals to stderr when no
// logger is configured through WithLogger.
//
// # Thread Safety
//
// An Allocator is NOT thread-safe. Independent allocators over independent
// arenas may be used from different goroutines.
package alloc
