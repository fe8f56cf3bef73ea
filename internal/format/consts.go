// Package format holds the boundary-tag block layout shared by the allocator
// and the heap verifier: word sizes, alignment, the fixed sentinel layout at
// the start of every heap, and the tag encoding.
package format

const (
	// WordSize is the width of a header or footer tag in bytes.
	WordSize = 4

	// DoubleWordSize is the alignment unit. Block sizes and payload offsets are
	// always multiples of it.
	DoubleWordSize = 8

	// Alignment is the payload alignment guaranteed to callers.
	Alignment = DoubleWordSize

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1

	// TagOverhead is the per-block cost of the header and footer.
	TagOverhead = 2 * WordSize

	// MinBlockSize is the smallest legal block: header, footer and one double
	// word of payload. A split never leaves a remainder smaller than this.
	MinBlockSize = 2 * DoubleWordSize

	// ChunkSize is the default heap extension in bytes (4 KiB).
	ChunkSize = 1 << 12

	// AllocBit is the allocated flag stored in bit 0 of a tag.
	AllocBit = 0x1

	// SizeMask clears the flag bits of a tag.
	SizeMask = ^uint32(AlignmentMask)

	// MaxHeapSize bounds the whole heap so that every offset fits an int32.
	MaxHeapSize = 1<<31 - 1

	// MaxBlockSize is the largest block the allocator will build.
	MaxBlockSize = MaxHeapSize &^ AlignmentMask
)

// Fixed layout written by allocator initialization. Offsets are absolute
// arena offsets.
//
//	0x00  padding word
//	0x04  prologue header  Pack(8, true)
//	0x08  prologue footer  Pack(8, true)
//	0x0C  epilogue header  Pack(0, true)
const (
	// PaddingOffset is the alignment padding word at the start of the arena.
	PaddingOffset = 0

	// PrologueHeaderOffset is the offset of the prologue header tag.
	PrologueHeaderOffset = WordSize

	// PrologueFooterOffset is the offset of the prologue footer tag.
	PrologueFooterOffset = 2 * WordSize

	// PrologueSize is the block size recorded in the prologue tags.
	PrologueSize = DoubleWordSize

	// ProloguePayload is the payload offset of the prologue block. Walks over
	// the heap start here.
	ProloguePayload = 2 * WordSize

	// FirstBlockPayload is the payload offset of the first real block.
	FirstBlockPayload = 4 * WordSize

	// InitialRegionSize is the arena space claimed before the first extension:
	// padding, prologue header and footer, epilogue header.
	InitialRegionSize = 4 * WordSize
)
