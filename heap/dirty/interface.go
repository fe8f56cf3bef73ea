package dirty

// DirtyTracker is the minimal interface for tracking modified byte ranges.
// Allocators only notify; they never query or reset.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the heap, length is the number of bytes.
	Add(off, length int)
}
