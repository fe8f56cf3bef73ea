package alloc

import (
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestAllocator creates an allocator over a Mem arena of limit bytes.
func newTestAllocator(t testing.TB, limit int, opts ...Option) *Allocator {
	t.Helper()
	a, err := New(arena.NewMem(limit), opts...)
	require.NoError(t, err, "failed to initialize heap")
	return a
}

// assertInvariants fails the test if any heap invariant is violated.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check(), "heap invariants violated")
}

// collectBlocks returns every block between prologue and epilogue.
func collectBlocks(t testing.TB, a *Allocator) []Block {
	t.Helper()
	var out []Block
	it := a.Blocks()
	for {
		b, err := it.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return out
		}
		out = append(out, b)
	}
}

// readTag decodes the raw tag word at off.
func readTag(a *Allocator, off int) (int, bool) {
	tag := format.ReadU32(a.Arena().Bytes(), off)
	return format.TagSize(tag), format.TagAllocated(tag)
}

// fill writes a pattern derived from seed over the whole payload of p.
func fill(a *Allocator, p Ptr, seed byte) {
	b := a.Payload(p)
	for i := range b {
		b[i] = seed + byte(i*7)
	}
}

// checkFill verifies the first n bytes of p still hold the pattern for seed.
func checkFill(t testing.TB, a *Allocator, p Ptr, seed byte, n int) {
	t.Helper()
	b := a.Payload(p)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != seed+byte(i*7) {
			t.Fatalf("payload of block %d corrupted at byte %d: got 0x%02X want 0x%02X", p, i, b[i], seed+byte(i*7))
		}
	}
}

// assertNoOverlap fails when two live payload spans intersect.
func assertNoOverlap(t testing.TB, a *Allocator, live []Ptr) {
	t.Helper()
	type span struct{ start, end int }
	spans := make([]span, 0, len(live))
	for _, p := range live {
		spans = append(spans, span{int(p) - format.WordSize, int(p) + a.UsableSize(p) + format.WordSize})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		require.LessOrEqual(t, spans[i-1].end, spans[i].start, "blocks overlap")
	}
}
