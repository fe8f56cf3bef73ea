package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closer interface {
	Arena
	Len() int
	Limit() int
	Close() error
}

func forEachArena(t *testing.T, limit int, fn func(t *testing.T, a closer)) {
	t.Helper()
	t.Run("mem", func(t *testing.T) {
		fn(t, NewMem(limit))
	})
	t.Run("mapped", func(t *testing.T) {
		m, err := NewMapped(limit)
		require.NoError(t, err)
		t.Cleanup(func() { _ = m.Close() })
		fn(t, m)
	})
}

func TestGrowReturnsOldEnd(t *testing.T) {
	forEachArena(t, 4096, func(t *testing.T, a closer) {
		off, err := a.Grow(16)
		require.NoError(t, err)
		assert.Equal(t, 0, off)

		off, err = a.Grow(1024)
		require.NoError(t, err)
		assert.Equal(t, 16, off)
		assert.Equal(t, 1040, a.Len())
		assert.Len(t, a.Bytes(), 1040)
		assert.Equal(t, 4096, a.Limit())
	})
}

func TestGrowZeroes(t *testing.T) {
	forEachArena(t, 4096, func(t *testing.T, a closer) {
		_, err := a.Grow(64)
		require.NoError(t, err)
		for i, b := range a.Bytes() {
			require.Zerof(t, b, "byte %d not zero", i)
		}
	})
}

func TestGrowExhausted(t *testing.T) {
	forEachArena(t, 64, func(t *testing.T, a closer) {
		_, err := a.Grow(48)
		require.NoError(t, err)

		_, err = a.Grow(32)
		require.ErrorIs(t, err, ErrExhausted)
		assert.Equal(t, 48, a.Len(), "refused grow must not change the region")

		off, err := a.Grow(16)
		require.NoError(t, err)
		assert.Equal(t, 48, off)

		_, err = a.Grow(1)
		require.ErrorIs(t, err, ErrExhausted)
	})
}

func TestGrowNegative(t *testing.T) {
	forEachArena(t, 64, func(t *testing.T, a closer) {
		_, err := a.Grow(-8)
		require.ErrorIs(t, err, ErrNegativeGrow)
	})
}

func TestBytesStable(t *testing.T) {
	forEachArena(t, 1<<16, func(t *testing.T, a closer) {
		_, err := a.Grow(32)
		require.NoError(t, err)
		first := a.Bytes()
		first[8] = 0xAB

		_, err = a.Grow(1 << 15)
		require.NoError(t, err)
		assert.Equal(t, byte(0xAB), a.Bytes()[8])

		first[9] = 0xCD
		assert.Equal(t, byte(0xCD), a.Bytes()[9], "earlier slices must alias the same memory")
	})
}

func TestClose(t *testing.T) {
	forEachArena(t, 64, func(t *testing.T, a closer) {
		require.NoError(t, a.Close())
		_, err := a.Grow(8)
		require.ErrorIs(t, err, ErrClosed)
		assert.Empty(t, a.Bytes())
		require.NoError(t, a.Close())
	})
}

func TestDefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NewMem(0).Limit())

	m, err := NewMapped(-1)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, DefaultLimit, m.Limit())
}
