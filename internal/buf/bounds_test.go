package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	assert.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	assert.False(t, ok, "expected overflow when adding to MaxInt")

	_, ok = AddOverflowSafe(math.MinInt, -1)
	assert.False(t, ok, "expected underflow when subtracting from MinInt")
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
		ok   bool
	}{
		{"zero", 0, 4, 0, true},
		{"words", 1024, 4, 4096, true},
		{"overflow", math.MaxInt/2 + 1, 2, 0, false},
		{"negative", -1, 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MulOverflowSafe(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckSpan(t *testing.T) {
	end, err := CheckSpan(64, 16, 24)
	require.NoError(t, err)
	assert.Equal(t, 40, end)

	_, err = CheckSpan(64, 48, 24)
	assert.ErrorContains(t, err, "bounds")

	_, err = CheckSpan(64, -4, 4)
	assert.ErrorContains(t, err, "negative offset")

	_, err = CheckSpan(64, 4, -1)
	assert.ErrorContains(t, err, "negative length")

	_, err = CheckSpan(math.MaxInt, math.MaxInt-1, 8)
	assert.ErrorContains(t, err, "overflow")
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 3, cap(got), "slice must not reach past its end")

	_, ok = Slice(data, 4, 2)
	assert.False(t, ok, "Slice should fail when extending beyond len")
	assert.False(t, Has(data, 2, 4))
	assert.True(t, Has(data, 2, 1))

	_, ok = Slice(data, -1, 1)
	assert.False(t, ok, "Slice should reject negative offset")
	_, ok = Slice(data, 1, -1)
	assert.False(t, ok, "Slice should reject negative length")
}
