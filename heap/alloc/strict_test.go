package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrict_RejectsForeignPointers(t *testing.T) {
	a := newTestAllocator(t, 0, WithStrict(true))
	p, err := a.Alloc(100)
	require.NoError(t, err)
	sum := a.Checksum()

	for _, bad := range []Ptr{8, p + 8, p + 4, 1 << 24, Ptr(a.HeapSize())} {
		require.ErrorIsf(t, a.Free(bad), ErrBadPtr, "Free(%d)", bad)
		_, err = a.Realloc(bad, 10)
		require.ErrorIsf(t, err, ErrBadPtr, "Realloc(%d)", bad)
	}
	assert.Equal(t, sum, a.Checksum(), "rejected pointers must not mutate the heap")
	assert.Equal(t, 10, a.Stats().Rejected)
}

func TestStrict_DoubleFree(t *testing.T) {
	a := newTestAllocator(t, 0, WithStrict(true))
	p, err := a.Alloc(100)
	require.NoError(t, err)
	_, err = a.Alloc(100)
	require.NoError(t, err)

	require.NoError(t, a.Free(p))
	sum := a.Checksum()

	require.ErrorIs(t, a.Free(p), ErrDoubleFree)
	_, err = a.Realloc(p, 10)
	require.ErrorIs(t, err, ErrDoubleFree)
	assert.Equal(t, sum, a.Checksum())
	assertInvariants(t, a)
}

func TestStrict_ValidPointersPass(t *testing.T) {
	a := newTestAllocator(t, 0, WithStrict(true))
	var live []Ptr
	for n := 1; n < 2000; n *= 3 {
		p, err := a.Alloc(n)
		require.NoError(t, err)
		live = append(live, p)
	}
	for i := len(live) - 1; i >= 0; i-- {
		require.NoError(t, a.Free(live[i]))
	}
	assertInvariants(t, a)
}

func TestNonStrict_DoesNotValidate(t *testing.T) {
	a := newTestAllocator(t, 0)
	p, err := a.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, a.Free(p))

	// Undefined by contract; the unchecked path just must not report anything.
	assert.NoError(t, a.Free(p))
	assert.Zero(t, a.Stats().Rejected)
}
