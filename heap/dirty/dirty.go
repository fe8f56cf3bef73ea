package dirty

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// PageSize is the tracking granularity (4KB).
const PageSize = 4096

// Range is a dirty byte range (absolute heap offsets), page aligned.
type Range struct {
	Off int64
	Len int64
}

// End returns the exclusive end offset.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker records dirty pages in a roaring bitmap.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	pages *roaring.Bitmap
	adds  uint64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{pages: roaring.New()}
}

// Add marks every page touched by [off, off+length) dirty. Empty and
// negative ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	first := uint64(off) / PageSize
	last := (uint64(off) + uint64(length) - 1) / PageSize
	t.pages.AddRange(first, last+1)
	t.adds++
}

// Contains reports whether the page holding byte off is dirty.
func (t *Tracker) Contains(off int) bool {
	if off < 0 {
		return false
	}
	return t.pages.Contains(uint32(off / PageSize))
}

// Count returns the number of dirty pages.
func (t *Tracker) Count() int {
	return int(t.pages.GetCardinality())
}

// Adds returns the number of non-empty Add calls since the last Reset.
func (t *Tracker) Adds() uint64 { return t.adds }

// Pages returns the dirty page indices in ascending order.
func (t *Tracker) Pages() []uint32 {
	return t.pages.ToArray()
}

// Ranges returns the dirty pages as sorted byte ranges, merging runs of
// consecutive pages.
func (t *Tracker) Ranges() []Range {
	if t.pages.IsEmpty() {
		return nil
	}
	var out []Range
	it := t.pages.Iterator()
	start := it.Next()
	prev := start
	for it.HasNext() {
		p := it.Next()
		if p == prev+1 {
			prev = p
			continue
		}
		out = append(out, pageRange(start, prev))
		start, prev = p, p
	}
	return append(out, pageRange(start, prev))
}

// Reset clears all dirty marks.
func (t *Tracker) Reset() {
	t.pages.Clear()
	t.adds = 0
}

// Clone returns an independent copy of the tracker.
func (t *Tracker) Clone() *Tracker {
	return &Tracker{pages: t.pages.Clone(), adds: t.adds}
}

// Equal reports whether two trackers hold the same dirty pages.
func (t *Tracker) Equal(o *Tracker) bool {
	return t.pages.Equals(o.pages)
}

func pageRange(first, last uint32) Range {
	return Range{
		Off: int64(first) * PageSize,
		Len: int64(last-first+1) * PageSize,
	}
}
