package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned reports whether off is a multiple of Alignment.
func IsAligned(off int) bool {
	return off&AlignmentMask == 0
}

// AdjustedSize returns the block size needed to serve a payload request of n
// bytes: payload plus both tags, rounded up to the alignment unit, with a
// floor of MinBlockSize. n must be positive.
//
// Example:
//
//	AdjustedSize(1)  = 16
//	AdjustedSize(8)  = 16
//	AdjustedSize(9)  = 24
//	AdjustedSize(24) = 32
func AdjustedSize(n int) int {
	if n <= DoubleWordSize {
		return MinBlockSize
	}
	return DoubleWordSize * ((n + DoubleWordSize + (DoubleWordSize - 1)) / DoubleWordSize)
}

// EvenWords rounds a word count up to an even number so that an extension
// of that many words preserves double-word alignment.
func EvenWords(words int) int {
	if words%2 != 0 {
		return words + 1
	}
	return words
}
