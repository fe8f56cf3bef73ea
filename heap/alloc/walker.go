package alloc

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// firstBlock is the payload offset of the block after the prologue.
func (a *Allocator) firstBlock() Ptr {
	return a.nextBlkp(format.ProloguePayload)
}

// findFit returns the first free block of at least asize bytes in address
// order. ok is false when the walk reaches the epilogue without a match.
func (a *Allocator) findFit(asize int) (Ptr, bool) {
	for bp := a.firstBlock(); ; bp = a.nextBlkp(bp) {
		tag := a.get(hdrp(bp))
		size := format.TagSize(tag)
		if size == 0 {
			return Nil, false
		}
		a.stats.BlocksScanned++
		if !format.TagAllocated(tag) && size >= asize {
			return bp, true
		}
	}
}

// BlockIterator walks heap blocks in address order, excluding the prologue
// and epilogue.
type BlockIterator struct {
	a    *Allocator
	bp   Ptr
	done bool
}

// Blocks returns an iterator positioned at the first block. The heap must
// not be modified while iterating.
func (a *Allocator) Blocks() *BlockIterator {
	return &BlockIterator{a: a, bp: a.firstBlock()}
}

// Next returns the next block, io.EOF at the epilogue, or an error wrapping
// ErrCorrupt when a header cannot describe a valid block.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	heapLen := len(it.a.ar.Bytes())
	if hdrp(it.bp)+format.WordSize > heapLen {
		it.done = true
		return Block{}, fmt.Errorf("%w: walk left the heap at offset %d without an epilogue", ErrCorrupt, it.bp)
	}

	tag := it.a.get(hdrp(it.bp))
	size := format.TagSize(tag)
	if size == 0 {
		it.done = true
		return Block{}, io.EOF
	}
	if size < format.MinBlockSize || int(it.bp)+size-format.WordSize > heapLen {
		it.done = true
		return Block{}, fmt.Errorf("%w: block at %d has size %d", ErrCorrupt, it.bp, size)
	}

	b := Block{Ptr: it.bp, Size: size, Allocated: format.TagAllocated(tag)}
	it.bp += Ptr(size)
	return b, nil
}

// lookup finds the block whose payload starts at p by walking the heap.
func (a *Allocator) lookup(p Ptr) (Block, bool) {
	it := a.Blocks()
	for {
		b, err := it.Next()
		if err != nil || b.Ptr > p {
			return Block{}, false
		}
		if b.Ptr == p {
			return b, true
		}
	}
}
