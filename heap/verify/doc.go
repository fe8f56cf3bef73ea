// Package verify checks the structural invariants of a boundary-tag heap.
//
// # Overview
//
// The checks operate on the raw heap bytes, so they can validate a heap
// independently of the allocator that built it. Validation categories:
//   - Prologue: padding word and the two prologue tags at offsets 4 and 8
//   - Epilogue: a zero-size allocated header as the last heap word
//   - Block structure: sizes, alignment, header/footer agreement, tiling
//   - Coalescing: no two physically adjacent free blocks
//
// # Quick Start
//
//	if err := verify.AllInvariants(ar.Bytes()); err != nil {
//	    fmt.Printf("heap invalid: %v\n", err)
//	}
//
// # ValidationError
//
// Every failure is a *ValidationError naming the check, the offending offset
// and, where useful, the decoded values in Details.
//
// # Checksum
//
// Checksum hashes the block tags with xxhash3. Payload bytes do not
// contribute, so the sum changes only when the block layout changes.
package verify
