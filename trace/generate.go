package trace

import "math/rand"

// GenOptions controls Generate.
type GenOptions struct {
	NumIDs      int     // blocks to allocate (default 100)
	MinSize     int     // smallest request (default 1)
	MaxSize     int     // largest request (default 4096)
	ReallocProb float64 // chance a step resizes a live block instead of freeing it
	MaxReallocs int     // resizes per block (default 3)
	Weight      int     // header weight (default 1)
}

func (o *GenOptions) applyDefaults() {
	if o.NumIDs <= 0 {
		o.NumIDs = 100
	}
	if o.MinSize <= 0 {
		o.MinSize = 1
	}
	if o.MaxSize < o.MinSize {
		o.MaxSize = max(o.MinSize, 4096)
	}
	if o.MaxReallocs <= 0 {
		o.MaxReallocs = 3
	}
	if o.Weight <= 0 {
		o.Weight = 1
	}
}

// Generate builds a random valid trace in which every id is allocated once,
// resized up to MaxReallocs times and finally freed.
func Generate(rng *rand.Rand, opts GenOptions) *Trace {
	opts.applyDefaults()

	t := &Trace{
		NumIDs: opts.NumIDs,
		Weight: opts.Weight,
		Ops:    make([]Op, 0, 3*opts.NumIDs),
	}
	size := func() int { return opts.MinSize + rng.Intn(opts.MaxSize-opts.MinSize+1) }

	var live []int
	reallocs := make([]int, opts.NumIDs)
	next := 0
	for next < opts.NumIDs || len(live) > 0 {
		if next < opts.NumIDs && (len(live) == 0 || rng.Intn(2) == 0) {
			t.Ops = append(t.Ops, Op{Kind: OpAlloc, ID: next, Size: size()})
			live = append(live, next)
			next++
			continue
		}

		i := rng.Intn(len(live))
		id := live[i]
		if reallocs[id] < opts.MaxReallocs && rng.Float64() < opts.ReallocProb {
			reallocs[id]++
			t.Ops = append(t.Ops, Op{Kind: OpRealloc, ID: id, Size: size()})
			continue
		}
		t.Ops = append(t.Ops, Op{Kind: OpFree, ID: id})
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}

	t.SuggestedHeap = t.PeakLive()
	return t
}
