package alloc

// coalesce merges the free block at bp with whichever physical neighbors are
// free and returns the payload offset of the resulting block.
//
//	prev   next   result
//	alloc  alloc  bp unchanged
//	alloc  free   bp grows over next
//	free   alloc  prev grows over bp
//	free   free   prev grows over bp and next
//
// The prologue and epilogue are allocated, so the first and last blocks
// need no special case.
func (a *Allocator) coalesce(bp Ptr) Ptr {
	prevAlloc := a.prevAllocated(bp)
	next := a.nextBlkp(bp)
	nextAlloc := a.isAllocated(next)
	size := a.blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		a.stats.CoalesceNone++
		return bp

	case prevAlloc && !nextAlloc:
		size += a.blockSize(next)
		a.setBlock(bp, size, false)
		a.stats.CoalesceForward++
		return bp

	case !prevAlloc && nextAlloc:
		prev := a.prevBlkp(bp)
		size += a.blockSize(prev)
		a.setBlock(prev, size, false)
		a.stats.CoalesceBackward++
		return prev

	default:
		prev := a.prevBlkp(bp)
		size += a.blockSize(prev) + a.blockSize(next)
		a.setBlock(prev, size, false)
		a.stats.CoalesceBoth++
		return prev
	}
}
