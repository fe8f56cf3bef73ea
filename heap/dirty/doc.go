// Package dirty provides page-level tracking of the heap bytes an allocator
// has written.
//
// # Overview
//
// Every tag write and payload copy the allocator performs is reported through
// the DirtyTracker interface. Tracker folds those reports into a set of 4 KiB
// page indices held in a roaring bitmap, which stays compact even for heaps
// tens of megabytes wide.
//
// # Usage
//
//	tracker := dirty.NewTracker()
//	a, err := alloc.New(ar, alloc.WithTracker(tracker))
//	...
//	for _, r := range tracker.Ranges() {
//	    // ar.Bytes()[r.Off : r.Off+r.Len] was written since the last Reset
//	}
//
// # Page-Level Granularity
//
// A 1-byte change marks the whole page dirty. Ranges merges consecutive pages:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Thread Safety
//
// Tracker instances are not thread-safe. One tracker belongs to one heap.
package dirty
