package alloc

import (
	"errors"
	"io"
)

// Stats holds allocator counters. Realloc performs its own Alloc, so every
// Realloc that moves data also counts one AllocCall and one FreeCall.
type Stats struct {
	AllocCalls     int   // Total Alloc() calls
	AllocFastPath  int   // Allocations served without growing the heap
	AllocSlowPath  int   // Allocations that required extendHeap
	FreeCalls      int   // Blocks returned to the heap
	ReallocCalls   int   // Realloc() calls that moved data
	Rejected       int   // Strict-mode pointer rejections
	BytesAllocated int64 // Total block bytes handed out (tags included)
	BytesFreed     int64 // Total block bytes returned
	GrowCalls      int   // Heap extensions
	GrowBytes      int64 // Total bytes added by extensions
	Splits         int   // Blocks split by place
	FitMisses      int   // First-fit walks that reached the epilogue

	BlocksScanned int // Blocks visited by first-fit walks

	CoalesceNone     int // Frees with both neighbors allocated
	CoalesceForward  int // Merges with the next block only
	CoalesceBackward int // Merges with the previous block only
	CoalesceBoth     int // Merges with both neighbors
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Usage summarizes the current block layout.
type Usage struct {
	HeapSize        int // bytes spanned by the heap, sentinels included
	Blocks          int
	AllocatedBlocks int
	FreeBlocks      int
	AllocatedBytes  int // block bytes, tags included
	PayloadBytes    int // usable bytes of allocated blocks
	FreeBytes       int
	LargestFree     int
}

// Usage walks the heap and summarizes it.
func (a *Allocator) Usage() (Usage, error) {
	u := Usage{HeapSize: a.HeapSize()}
	it := a.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			return u, nil
		}
		if err != nil {
			return u, err
		}
		u.Blocks++
		if b.Allocated {
			u.AllocatedBlocks++
			u.AllocatedBytes += b.Size
			u.PayloadBytes += b.PayloadSize()
			continue
		}
		u.FreeBlocks++
		u.FreeBytes += b.Size
		u.LargestFree = max(u.LargestFree, b.Size)
	}
}
