package format

import "testing"

func TestPackRoundTrip(t *testing.T) {
	for _, size := range []int{0, 8, 16, 24, 4096, 1 << 20} {
		for _, allocated := range []bool{false, true} {
			tag := Pack(size, allocated)
			if TagSize(tag) != size || TagAllocated(tag) != allocated {
				t.Fatalf("Pack(%d,%v)=%#x decodes to (%d,%v)",
					size, allocated, tag, TagSize(tag), TagAllocated(tag))
			}
		}
	}
}

func TestSentinelTags(t *testing.T) {
	if EpilogueTag != 0x1 {
		t.Fatalf("epilogue tag=%#x want 0x1", EpilogueTag)
	}
	if PrologueTag != 0x9 {
		t.Fatalf("prologue tag=%#x want 0x9", PrologueTag)
	}
}

func TestTagEncodingLittleEndian(t *testing.T) {
	b := make([]byte, 8)
	PutU32(b, 4, Pack(24, true))
	if b[4] != 0x19 || b[5] != 0 || b[6] != 0 || b[7] != 0 {
		t.Fatalf("unexpected encoding: % x", b)
	}
	if ReadU32(b, 4) != 0x19 {
		t.Fatalf("ReadU32 mismatch")
	}
}
