// Package driver replays allocation traces against fresh heaps, checks that
// every allocation is well formed, and measures space utilization and
// throughput.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/trace"
)

// Arena kinds accepted in Options.Arena.
const (
	ArenaMem    = "mem"
	ArenaMapped = "mapped"
)

// Options configures a replay.
type Options struct {
	Arena     string // ArenaMem (default) or ArenaMapped
	MaxHeap   int    // arena limit, arena.DefaultLimit when zero
	ChunkSize int    // heap extension, allocator default when zero
	Strict    bool   // allocator pointer validation
	Check     bool   // full heap verification after every op
	StopAfter int    // replay only the first StopAfter ops when > 0
	Snapshot  bool   // record the final block layout in Result.Blocks
	Logger    *slog.Logger
}

// Result describes one trace replay.
type Result struct {
	Name        string        `json:"name"`
	Weight      int           `json:"weight"`
	Ops         int           `json:"ops"`
	Valid       bool          `json:"valid"`
	Failure     string        `json:"failure,omitempty"`
	PeakLive    int           `json:"peak_live"`
	HeapSize    int           `json:"heap_size"`
	Utilization float64       `json:"utilization"`
	DirtyPages  int           `json:"dirty_pages"`
	Duration    time.Duration `json:"duration_ns"`
	Stats       alloc.Stats   `json:"stats"`
	Usage       alloc.Usage   `json:"usage"`
	Blocks      []alloc.Block `json:"blocks,omitempty"`

	// Err is the correctness failure behind Failure, if any.
	Err error `json:"-"`
}

// OpsPerSec returns replay throughput.
func (r *Result) OpsPerSec() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Duration.Seconds()
}

// Run replays t against a new arena and allocator. Correctness failures
// (allocation errors, misaligned or overlapping blocks, corrupted payloads,
// broken heap invariants) mark the result invalid and stop the replay; they
// are not returned as errors. The error return is reserved for setup
// failures and context cancellation.
func Run(ctx context.Context, t *trace.Trace, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.L
	}

	ar, closeArena, err := newArena(opts)
	if err != nil {
		return nil, err
	}
	defer closeArena()

	tracker := dirty.NewTracker()
	allocOpts := []alloc.Option{
		alloc.WithStrict(opts.Strict),
		alloc.WithLogger(log),
		alloc.WithTracker(tracker),
	}
	if opts.ChunkSize > 0 {
		allocOpts = append(allocOpts, alloc.WithChunkSize(opts.ChunkSize))
	}

	res := &Result{Name: t.Name, Weight: t.Weight}
	start := time.Now()

	a, err := alloc.New(ar, allocOpts...)
	if err != nil {
		res.fail(fmt.Errorf("init: %w", err))
		res.Duration = time.Since(start)
		return res, nil
	}

	r := newReplayer(a, t.NumIDs, opts.Check)
	r.mark = tracker.Add
	ops := t.Ops
	if opts.StopAfter > 0 && opts.StopAfter < len(ops) {
		ops = ops[:opts.StopAfter]
	}

	res.Valid = true
	for i, op := range ops {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := r.apply(op); err != nil {
			res.fail(&OpError{Index: i, Op: op, Err: err})
			break
		}
		res.Ops++
	}
	res.Duration = time.Since(start)

	res.PeakLive = r.peak
	res.HeapSize = a.HeapSize()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakLive) / float64(res.HeapSize)
	}
	res.Stats = a.Stats()
	res.DirtyPages = tracker.Count()
	if res.Usage, err = a.Usage(); err != nil && res.Valid {
		res.fail(err)
	}
	if opts.Snapshot {
		res.Blocks = snapshot(a)
	}

	log.Info("trace replayed",
		"trace", res.Name,
		"ops", res.Ops,
		"valid", res.Valid,
		"util", res.Utilization,
		"heap_size", res.HeapSize,
		"duration", res.Duration,
	)
	if !res.Valid {
		log.Warn("trace failed", "trace", res.Name, "failure", res.Failure)
	}
	return res, nil
}

func (r *Result) fail(err error) {
	r.Valid = false
	r.Err = err
	r.Failure = err.Error()
}

// OpError locates a correctness failure in the trace.
type OpError struct {
	Index int
	Op    trace.Op
	Err   error
}

func (e *OpError) Error() string {
	if e.Op.Kind == trace.OpFree {
		return fmt.Sprintf("op %d (free id %d): %v", e.Index, e.Op.ID, e.Err)
	}
	return fmt.Sprintf("op %d (%s id %d, %d bytes): %v", e.Index, e.Op.Kind, e.Op.ID, e.Op.Size, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func newArena(opts Options) (arena.Arena, func(), error) {
	switch opts.Arena {
	case "", ArenaMem:
		m := arena.NewMem(opts.MaxHeap)
		return m, func() { _ = m.Close() }, nil
	case ArenaMapped:
		m, err := arena.NewMapped(opts.MaxHeap)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("driver: unknown arena %q", opts.Arena)
	}
}

func snapshot(a *alloc.Allocator) []alloc.Block {
	var out []alloc.Block
	it := a.Blocks()
	for {
		b, err := it.Next()
		if err != nil {
			return out
		}
		out = append(out, b)
	}
}
