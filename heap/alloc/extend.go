package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// extendHeap grows the heap by words (rounded up to even) words. The new
// space becomes one free block whose header replaces the old epilogue, a new
// epilogue is written after it, and the block is merged with a free block
// that ended the heap before. Returns the payload offset of the free block.
//
// On failure the heap is unchanged.
func (a *Allocator) extendHeap(words int) (Ptr, error) {
	words = format.EvenWords(words)
	size, ok := buf.MulOverflowSafe(words, format.WordSize)
	if !ok || size > format.MaxHeapSize-a.HeapSize() {
		a.log.Warn("heap extension refused", "words", words, "heap_size", a.HeapSize())
		return Nil, fmt.Errorf("%w: extension of %d words exceeds the heap limit", ErrNoMemory, words)
	}

	old, err := a.ar.Grow(size)
	if err != nil {
		a.log.Warn("heap extension refused", "bytes", size, "heap_size", a.HeapSize(), "error", err)
		return Nil, fmt.Errorf("%w: extend heap by %d bytes: %w", ErrNoMemory, size, err)
	}

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)
	a.log.Debug("heap extended", "bytes", size, "heap_size", old+size, "grow_calls", a.stats.GrowCalls)

	// The old epilogue word at old-4 becomes the header of the new block.
	bp := Ptr(old)
	a.setBlock(bp, size, false)
	a.put(hdrp(a.nextBlkp(bp)), format.EpilogueTag)

	if a.onGrow != nil {
		a.onGrow(size)
	}
	return a.coalesce(bp), nil
}
