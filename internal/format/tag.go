package format

// Pack encodes a block size and allocated flag into a tag word. size must
// already be a multiple of Alignment; only the epilogue has size 0.
func Pack(size int, allocated bool) uint32 {
	tag := uint32(size) & SizeMask
	if allocated {
		tag |= AllocBit
	}
	return tag
}

// TagSize decodes the block size recorded in a tag.
func TagSize(tag uint32) int {
	return int(tag & SizeMask)
}

// TagAllocated decodes the allocated flag of a tag.
func TagAllocated(tag uint32) bool {
	return tag&AllocBit != 0
}

// EpilogueTag is the tag of the zero-size, permanently allocated end sentinel.
var EpilogueTag = Pack(0, true)

// PrologueTag is the tag written to both prologue header and footer.
var PrologueTag = Pack(PrologueSize, true)
