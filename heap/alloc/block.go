package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Tag access. All block arithmetic works on offsets into the arena; reads are
// bounds checked so a walk over a damaged heap stops instead of faulting.

// get returns the tag word at off. A word outside the heap reads as the
// epilogue tag (size 0, allocated), which ends any walk and blocks any merge.
func (a *Allocator) get(off int) uint32 {
	v, ok := buf.U32At(a.ar.Bytes(), off)
	if !ok {
		return format.EpilogueTag
	}
	return v
}

// put writes the tag word at off and reports it to the dirty tracker.
// Every caller computes off from tags this allocator wrote, so a write
// outside the heap is an allocator bug.
func (a *Allocator) put(off int, v uint32) {
	mem := a.ar.Bytes()
	if !buf.PutU32At(mem, off, v) {
		panic(fmt.Sprintf("alloc: tag write at offset %d outside heap of %d bytes", off, len(mem)))
	}
	if a.dt != nil {
		a.dt.Add(off, format.WordSize)
	}
}

// hdrp returns the header offset of the block whose payload starts at bp.
func hdrp(bp Ptr) int { return int(bp) - format.WordSize }

// ftrp returns the footer offset of the block at bp, using its header size.
func (a *Allocator) ftrp(bp Ptr) int {
	return int(bp) + a.blockSize(bp) - format.DoubleWordSize
}

// blockSize decodes the size from the header of the block at bp.
func (a *Allocator) blockSize(bp Ptr) int {
	return format.TagSize(a.get(hdrp(bp)))
}

// isAllocated decodes the allocated bit from the header of the block at bp.
func (a *Allocator) isAllocated(bp Ptr) bool {
	return format.TagAllocated(a.get(hdrp(bp)))
}

// nextBlkp returns the payload offset of the physically following block.
func (a *Allocator) nextBlkp(bp Ptr) Ptr {
	return bp + Ptr(a.blockSize(bp))
}

// prevBlkp returns the payload offset of the physically preceding block,
// found through that block's footer just below our header.
func (a *Allocator) prevBlkp(bp Ptr) Ptr {
	return bp - Ptr(format.TagSize(a.get(int(bp)-format.DoubleWordSize)))
}

// prevAllocated reads the allocated bit from the previous block's footer.
func (a *Allocator) prevAllocated(bp Ptr) bool {
	return format.TagAllocated(a.get(int(bp) - format.DoubleWordSize))
}

// setBlock writes matching header and footer tags for a block of size bytes
// at bp. The footer position comes from size, not from the old header.
func (a *Allocator) setBlock(bp Ptr, size int, allocated bool) {
	tag := format.Pack(size, allocated)
	a.put(hdrp(bp), tag)
	a.put(int(bp)+size-format.DoubleWordSize, tag)
}
