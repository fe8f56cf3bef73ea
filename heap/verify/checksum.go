package verify

import (
	"encoding/binary"

	"github.com/bytedance/gopkg/util/xxhash3"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Checksum hashes the heap length and every block header reachable from the
// prologue, epilogue included. A walk that leaves the heap stops early;
// the partial sum still differs from any valid layout's.
func Checksum(data []byte) uint64 {
	tags := make([]byte, 0, 64)
	tags = binary.LittleEndian.AppendUint32(tags, uint32(len(data)))

	bp := format.ProloguePayload
	for {
		hdr, ok := buf.U32At(data, bp-format.WordSize)
		if !ok {
			break
		}
		tags = binary.LittleEndian.AppendUint32(tags, hdr)
		size := format.TagSize(hdr)
		if size == 0 {
			break
		}
		bp += size
	}
	return xxhash3.Hash(tags)
}

