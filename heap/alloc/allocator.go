package alloc

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Runtime debug flag for allocation logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// Allocator is an implicit free-list allocator owning one arena.
//
// NOT thread-safe.
type Allocator struct {
	ar     arena.Arena
	chunk  int
	strict bool
	log    *slog.Logger
	dt     DirtyTracker

	stats Stats

	// Test hook: called after every heap extension (nil in production)
	onGrow func(int)
}

// New initializes a heap on ar, which must be empty. It lays down the
// padding word, the prologue and the epilogue, then extends the heap by one
// chunk of free space.
func New(ar arena.Arena, opts ...Option) (*Allocator, error) {
	a := &Allocator{ar: ar, chunk: format.ChunkSize}
	for _, opt := range opts {
		opt(a)
	}
	if a.chunk < format.MinBlockSize || a.chunk%format.DoubleWordSize != 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be a multiple of %d and at least %d",
			ErrBadSize, a.chunk, format.DoubleWordSize, format.MinBlockSize)
	}
	if a.log == nil {
		a.log = defaultLogger()
	}

	if n := len(ar.Bytes()); n != 0 {
		return nil, fmt.Errorf("%w: arena already holds %d bytes", ErrInit, n)
	}
	if _, err := ar.Grow(format.InitialRegionSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	a.put(format.PaddingOffset, 0)
	a.put(format.PrologueHeaderOffset, format.PrologueTag)
	a.put(format.PrologueFooterOffset, format.PrologueTag)
	a.put(format.InitialRegionSize-format.WordSize, format.EpilogueTag)

	if _, err := a.extendHeap(a.chunk / format.WordSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	return a, nil
}

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Alloc returns the payload offset of a block with at least size usable
// bytes. Alloc(0) returns (Nil, nil) without touching the heap.
//
// When the heap cannot grow the returned error wraps both ErrNoMemory and the
// arena's error, and the heap is unchanged.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	a.stats.AllocCalls++
	switch {
	case size < 0:
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	case size == 0:
		return Nil, nil
	case size > format.MaxBlockSize-format.TagOverhead-format.AlignmentMask:
		return Nil, fmt.Errorf("%w: request of %d bytes exceeds the largest block", ErrNoMemory, size)
	}

	asize := format.AdjustedSize(size)
	if bp, ok := a.findFit(asize); ok {
		a.place(bp, asize)
		a.stats.AllocFastPath++
		a.stats.BytesAllocated += int64(a.blockSize(bp))
		return bp, nil
	}

	a.stats.FitMisses++
	bp, err := a.extendHeap(max(asize, a.chunk) / format.WordSize)
	if err != nil {
		return Nil, err
	}
	a.place(bp, asize)
	a.stats.AllocSlowPath++
	a.stats.BytesAllocated += int64(a.blockSize(bp))
	return bp, nil
}

// place marks the leading asize bytes of the free block at bp allocated,
// splitting off the remainder when it can form a minimum block.
func (a *Allocator) place(bp Ptr, asize int) {
	csize := a.blockSize(bp)
	if csize-asize >= format.MinBlockSize {
		a.setBlock(bp, asize, true)
		a.setBlock(bp+Ptr(asize), csize-asize, false)
		a.stats.Splits++
		return
	}
	a.setBlock(bp, csize, true)
}

// Free returns the block at p to the heap and merges it with free
// neighbors. Free(Nil) is a no-op.
func (a *Allocator) Free(p Ptr) error {
	if p == Nil {
		return nil
	}
	if err := a.checkPtr("free", p); err != nil {
		return err
	}
	a.stats.FreeCalls++
	a.free(p)
	return nil
}

func (a *Allocator) free(p Ptr) {
	size := a.blockSize(p)
	a.stats.BytesFreed += int64(size)
	a.setBlock(p, size, false)
	a.coalesce(p)
}

// Realloc moves the contents of p into a block of at least size bytes and
// frees p. The first min(UsableSize(p), size) bytes are preserved.
//
// Realloc(Nil, size) is Alloc(size). Realloc(p, 0) frees p and returns Nil.
// If the new block cannot be allocated, p is left intact and the error is
// returned.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	if p == Nil {
		return a.Alloc(size)
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if size == 0 {
		return Nil, a.Free(p)
	}
	if err := a.checkPtr("realloc", p); err != nil {
		return Nil, err
	}
	a.stats.ReallocCalls++

	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}

	n := min(a.blockSize(p)-format.TagOverhead, size)
	mem := a.ar.Bytes()
	copy(mem[np:int(np)+n], mem[p:int(p)+n])
	if a.dt != nil {
		a.dt.Add(int(np), n)
	}

	a.stats.FreeCalls++
	a.free(p)
	return np, nil
}

// checkPtr validates p in strict mode. It is a no-op otherwise.
func (a *Allocator) checkPtr(op string, p Ptr) error {
	if !a.strict {
		return nil
	}
	b, ok := a.lookup(p)
	switch {
	case !ok:
		a.stats.Rejected++
		a.log.Warn("rejected pointer", "op", op, "ptr", p, "heap_size", a.HeapSize())
		return fmt.Errorf("%s %d: %w", op, p, ErrBadPtr)
	case !b.Allocated:
		a.stats.Rejected++
		a.log.Warn("rejected free block", "op", op, "ptr", p, "size", b.Size)
		return fmt.Errorf("%s %d: %w", op, p, ErrDoubleFree)
	}
	return nil
}

// Payload returns the usable bytes of the block at p. The slice aliases the
// heap and stays valid until p is freed. It returns nil for Nil or for a
// pointer whose block does not fit in the heap.
func (a *Allocator) Payload(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	n := a.UsableSize(p)
	if n <= 0 {
		return nil
	}
	b, ok := buf.Slice(a.ar.Bytes(), int(p), n)
	if !ok {
		return nil
	}
	return b
}

// UsableSize returns the payload capacity of the block at p.
func (a *Allocator) UsableSize(p Ptr) int {
	if p == Nil {
		return 0
	}
	return max(a.blockSize(p)-format.TagOverhead, 0)
}

// HeapSize returns the bytes the heap currently spans, sentinels included.
func (a *Allocator) HeapSize() int { return len(a.ar.Bytes()) }

// Arena returns the arena backing the heap.
func (a *Allocator) Arena() arena.Arena { return a.ar }

// Check validates every structural invariant of the heap.
func (a *Allocator) Check() error {
	return verify.AllInvariants(a.ar.Bytes())
}

// Checksum hashes every block tag in the heap. Two heaps with the same block
// layout have the same checksum regardless of payload contents.
func (a *Allocator) Checksum() uint64 {
	return verify.Checksum(a.ar.Bytes())
}
