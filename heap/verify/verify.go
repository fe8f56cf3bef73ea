package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes one invariant violation.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Prologue(data); err != nil {
		return err
	}
	if err := Epilogue(data); err != nil {
		return err
	}
	if err := BlockStructure(data); err != nil {
		return err
	}
	return Coalescing(data)
}

// Prologue validates the padding word and the prologue block.
func Prologue(data []byte) error {
	if len(data) < format.InitialRegionSize {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("heap too small: %d bytes (need %d)", len(data), format.InitialRegionSize),
			Offset:  -1,
		}
	}
	if pad := format.ReadU32(data, format.PaddingOffset); pad != 0 {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("padding word is 0x%X, expected 0", pad),
			Offset:  format.PaddingOffset,
		}
	}
	for _, off := range []int{format.PrologueHeaderOffset, format.PrologueFooterOffset} {
		if tag := format.ReadU32(data, off); tag != format.PrologueTag {
			return &ValidationError{
				Type:    "Prologue",
				Message: fmt.Sprintf("prologue tag is 0x%X, expected 0x%X", tag, format.PrologueTag),
				Offset:  off,
			}
		}
	}
	return nil
}

// Epilogue validates that the heap ends with the epilogue header.
func Epilogue(data []byte) error {
	if len(data) < format.InitialRegionSize || len(data)%format.DoubleWordSize != 0 {
		return &ValidationError{
			Type:    "Epilogue",
			Message: fmt.Sprintf("heap length %d is not a multiple of %d", len(data), format.DoubleWordSize),
			Offset:  -1,
		}
	}
	off := len(data) - format.WordSize
	if tag := format.ReadU32(data, off); tag != format.EpilogueTag {
		return &ValidationError{
			Type:    "Epilogue",
			Message: fmt.Sprintf("last word is 0x%X, expected epilogue 0x%X", tag, format.EpilogueTag),
			Offset:  off,
		}
	}
	return nil
}

// BlockStructure walks every block from the prologue and validates sizes,
// alignment and header/footer agreement. The walk must land exactly on the
// epilogue.
func BlockStructure(data []byte) error {
	epilogue := len(data) - format.WordSize
	return walk(data, func(bp, size int, _ bool) error {
		if !format.IsAligned(bp) {
			return &ValidationError{
				Type:    "BlockStructure",
				Message: "payload not 8-byte aligned",
				Offset:  bp,
			}
		}
		if size < format.MinBlockSize || size%format.DoubleWordSize != 0 {
			return &ValidationError{
				Type:    "BlockStructure",
				Message: fmt.Sprintf("invalid block size %d", size),
				Offset:  bp - format.WordSize,
				Details: map[string]interface{}{"size": size},
			}
		}
		ftr := bp + size - format.DoubleWordSize
		if ftr+format.WordSize > epilogue {
			return &ValidationError{
				Type:    "BlockStructure",
				Message: fmt.Sprintf("block of size %d overruns the epilogue at 0x%X", size, epilogue),
				Offset:  bp - format.WordSize,
			}
		}
		hdr := format.ReadU32(data, bp-format.WordSize)
		if f := format.ReadU32(data, ftr); f != hdr {
			return &ValidationError{
				Type:    "BlockStructure",
				Message: fmt.Sprintf("footer 0x%X disagrees with header 0x%X", f, hdr),
				Offset:  ftr,
				Details: map[string]interface{}{"header": hdr, "footer": f},
			}
		}
		return nil
	})
}

// Coalescing validates that no two physically adjacent blocks are free.
func Coalescing(data []byte) error {
	prevFree := false
	prevPtr := 0
	return walk(data, func(bp, size int, allocated bool) error {
		if !allocated && prevFree {
			return &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("free block follows free block at 0x%X", prevPtr),
				Offset:  bp,
				Details: map[string]interface{}{"prev": prevPtr, "size": size},
			}
		}
		prevFree, prevPtr = !allocated, bp
		return nil
	})
}

// walk calls fn for every block between prologue and epilogue. It reports a
// ValidationError when the walk leaves the heap or stops short of the
// epilogue.
func walk(data []byte, fn func(bp, size int, allocated bool) error) error {
	if err := Prologue(data); err != nil {
		return err
	}
	epilogue := len(data) - format.WordSize
	bp := format.FirstBlockPayload
	for {
		hdr, ok := buf.U32At(data, bp-format.WordSize)
		if !ok {
			return &ValidationError{
				Type:    "BlockStructure",
				Message: "block walk left the heap",
				Offset:  bp - format.WordSize,
			}
		}
		size := format.TagSize(hdr)
		if size == 0 {
			if bp-format.WordSize != epilogue {
				return &ValidationError{
					Type:    "BlockStructure",
					Message: fmt.Sprintf("walk reached a zero-size header before the epilogue at 0x%X", epilogue),
					Offset:  bp - format.WordSize,
				}
			}
			return nil
		}
		if err := fn(bp, size, format.TagAllocated(hdr)); err != nil {
			return err
		}
		bp += size
	}
}
