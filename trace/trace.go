package trace

import (
	"fmt"
)

// OpKind is the operation letter of a trace line.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	default:
		return fmt.Sprintf("OpKind(%q)", byte(k))
	}
}

// Op is one trace operation. Size is unused for OpFree.
type Op struct {
	Kind OpKind
	ID   int
	Size int
}

// Trace is a parsed allocation trace.
type Trace struct {
	Name          string // file base name, empty for traces not read from disk
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// Counts returns the number of operations of each kind.
func (t *Trace) Counts() (allocs, reallocs, frees int) {
	for _, op := range t.Ops {
		switch op.Kind {
		case OpAlloc:
			allocs++
		case OpRealloc:
			reallocs++
		case OpFree:
			frees++
		}
	}
	return allocs, reallocs, frees
}

// PeakLive returns the largest total of requested bytes live at once.
func (t *Trace) PeakLive() int {
	sizes := make(map[int]int, t.NumIDs)
	live, peak := 0, 0
	for _, op := range t.Ops {
		switch op.Kind {
		case OpAlloc, OpRealloc:
			live += op.Size - sizes[op.ID]
			sizes[op.ID] = op.Size
		case OpFree:
			live -= sizes[op.ID]
			delete(sizes, op.ID)
		}
		peak = max(peak, live)
	}
	return peak
}

// Validate checks that ids are in range, sizes are non-negative, every
// free or realloc names a live id, and no live id is allocated again.
func (t *Trace) Validate() error {
	if t.NumIDs < 0 || t.SuggestedHeap < 0 || t.Weight < 0 {
		return fmt.Errorf("trace: negative header value")
	}
	live := make([]bool, t.NumIDs)
	for i, op := range t.Ops {
		if op.ID < 0 || op.ID >= t.NumIDs {
			return fmt.Errorf("trace: op %d: id %d out of range [0,%d)", i, op.ID, t.NumIDs)
		}
		switch op.Kind {
		case OpAlloc:
			if live[op.ID] {
				return fmt.Errorf("trace: op %d: id %d allocated while live", i, op.ID)
			}
			live[op.ID] = true
		case OpRealloc, OpFree:
			if !live[op.ID] {
				return fmt.Errorf("trace: op %d: %s of id %d which is not live", i, op.Kind, op.ID)
			}
			live[op.ID] = op.Kind == OpRealloc
		default:
			return fmt.Errorf("trace: op %d: unknown kind %s", i, op.Kind)
		}
		if op.Size < 0 {
			return fmt.Errorf("trace: op %d: negative size %d", i, op.Size)
		}
	}
	return nil
}
