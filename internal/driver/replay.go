package driver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/trace"
)

// Correctness failures detected by the replayer.
var (
	ErrAllocFailed = errors.New("driver: allocator returned an error")
	ErrNilPtr      = errors.New("driver: allocator returned nil for a non-zero request")
	ErrUnaligned   = errors.New("driver: payload is not 8-byte aligned")
	ErrOutOfHeap   = errors.New("driver: payload lies outside the heap")
	ErrShortBlock  = errors.New("driver: payload smaller than the request")
	ErrOverlap     = errors.New("driver: payload overlaps a live block")
	ErrCorrupted   = errors.New("driver: payload contents changed")
	ErrHeapCheck   = errors.New("driver: heap check failed")
)

// heap is the allocator surface the replayer drives.
type heap interface {
	alloc.Heap
	HeapSize() int
	Check() error
}

type liveBlock struct {
	ptr  alloc.Ptr
	size int
}

// span is a half-open payload range [lo, hi).
type span struct{ lo, hi int }

type replayer struct {
	h     heap
	check bool
	live  map[int]liveBlock
	spans []span // sorted by lo, non-overlapping
	cur   int    // requested bytes currently live
	peak  int
	mark  func(off, n int)
}

func newReplayer(h heap, numIDs int, check bool) *replayer {
	return &replayer{
		h:     h,
		check: check,
		live:  make(map[int]liveBlock, numIDs),
	}
}

func (r *replayer) apply(op trace.Op) error {
	var err error
	switch op.Kind {
	case trace.OpAlloc:
		err = r.alloc(op.ID, op.Size)
	case trace.OpRealloc:
		err = r.realloc(op.ID, op.Size)
	case trace.OpFree:
		err = r.free(op.ID)
	default:
		err = fmt.Errorf("driver: unknown op kind %s", op.Kind)
	}
	if err != nil {
		return err
	}
	if r.check {
		if cerr := r.h.Check(); cerr != nil {
			return fmt.Errorf("%w: %w", ErrHeapCheck, cerr)
		}
	}
	return nil
}

func (r *replayer) alloc(id, size int) error {
	p, err := r.h.Alloc(size)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocFailed, err)
	}
	if err := r.accept(id, p, size); err != nil {
		return err
	}
	r.fill(id, p, 0, size)
	return nil
}

func (r *replayer) realloc(id, size int) error {
	old := r.live[id]
	if err := r.verify(id, old); err != nil {
		return err
	}
	p, err := r.h.Realloc(old.ptr, size)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocFailed, err)
	}
	r.release(id, old)
	if err := r.accept(id, p, size); err != nil {
		return err
	}
	keep := min(old.size, size)
	if err := r.verify(id, liveBlock{ptr: p, size: keep}); err != nil {
		return fmt.Errorf("realloc lost data: %w", err)
	}
	r.fill(id, p, keep, size)
	return nil
}

func (r *replayer) free(id int) error {
	b := r.live[id]
	if err := r.verify(id, b); err != nil {
		return err
	}
	if err := r.h.Free(b.ptr); err != nil {
		return fmt.Errorf("%w: %w", ErrAllocFailed, err)
	}
	r.release(id, b)
	delete(r.live, id)
	return nil
}

// accept validates a fresh payload and records it as live.
func (r *replayer) accept(id int, p alloc.Ptr, size int) error {
	if size == 0 {
		r.live[id] = liveBlock{}
		return nil
	}
	if p == alloc.Nil {
		return ErrNilPtr
	}
	lo, hi := int(p), int(p)+size
	if !format.IsAligned(lo) {
		return fmt.Errorf("%w: %d", ErrUnaligned, lo)
	}
	if lo < format.FirstBlockPayload || hi > r.h.HeapSize() {
		return fmt.Errorf("%w: [%d,%d) in heap of %d bytes", ErrOutOfHeap, lo, hi, r.h.HeapSize())
	}
	if n := len(r.h.Payload(p)); n < size {
		return fmt.Errorf("%w: %d usable bytes for %d requested", ErrShortBlock, n, size)
	}
	if err := r.insert(span{lo, hi}); err != nil {
		return err
	}
	r.live[id] = liveBlock{ptr: p, size: size}
	r.cur += size
	r.peak = max(r.peak, r.cur)
	return nil
}

func (r *replayer) release(id int, b liveBlock) {
	if b.size == 0 {
		return
	}
	r.remove(int(b.ptr))
	r.cur -= b.size
}

func (r *replayer) insert(s span) error {
	i := sort.Search(len(r.spans), func(i int) bool { return r.spans[i].lo >= s.lo })
	if i > 0 && r.spans[i-1].hi > s.lo {
		prev := r.spans[i-1]
		return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, s.lo, s.hi, prev.lo, prev.hi)
	}
	if i < len(r.spans) && r.spans[i].lo < s.hi {
		next := r.spans[i]
		return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, s.lo, s.hi, next.lo, next.hi)
	}
	r.spans = append(r.spans, span{})
	copy(r.spans[i+1:], r.spans[i:])
	r.spans[i] = s
	return nil
}

func (r *replayer) remove(lo int) {
	i := sort.Search(len(r.spans), func(i int) bool { return r.spans[i].lo >= lo })
	if i < len(r.spans) && r.spans[i].lo == lo {
		r.spans = append(r.spans[:i], r.spans[i+1:]...)
	}
}

// pattern is the byte written at offset i of the payload owned by id.
func pattern(id, i int) byte {
	return byte(id*131 + i*7 + i>>8)
}

func (r *replayer) fill(id int, p alloc.Ptr, from, to int) {
	if from >= to {
		return
	}
	b := r.h.Payload(p)
	for i := from; i < to; i++ {
		b[i] = pattern(id, i)
	}
	if r.mark != nil {
		r.mark(int(p)+from, to-from)
	}
}

func (r *replayer) verify(id int, lb liveBlock) error {
	if lb.size == 0 {
		return nil
	}
	b := r.h.Payload(lb.ptr)
	if len(b) < lb.size {
		return fmt.Errorf("%w: id %d block shrank to %d bytes", ErrCorrupted, id, len(b))
	}
	for i := 0; i < lb.size; i++ {
		if b[i] != pattern(id, i) {
			return fmt.Errorf("%w: id %d byte %d at offset %d is %#02x, want %#02x",
				ErrCorrupted, id, i, int(lb.ptr)+i, b[i], pattern(id, i))
		}
	}
	return nil
}
