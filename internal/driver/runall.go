package driver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapkit/trace"
)

// RunAll replays traces concurrently with at most jobs replays in flight.
// Results are returned in input order. The first setup error cancels the
// remaining replays.
func RunAll(ctx context.Context, traces []*trace.Trace, opts Options, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = 1
	}
	results := make([]*Result, len(traces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, t := range traces {
		g.Go(func() error {
			res, err := Run(gctx, t, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates a set of replays.
type Summary struct {
	Traces      int           `json:"traces"`
	Valid       bool          `json:"valid"`
	Ops         int           `json:"ops"`
	Utilization float64       `json:"utilization"` // weighted by trace weight
	Duration    time.Duration `json:"duration_ns"`
	OpsPerSec   float64       `json:"ops_per_sec"`
	HeapBytes   int           `json:"heap_bytes"`
	PeakLive    int           `json:"peak_live"`
}

// Summarize combines results. Utilization is the weighted mean over traces,
// where a zero weight counts as one. Throughput uses the summed replay time.
func Summarize(results []*Result) Summary {
	s := Summary{Traces: len(results), Valid: true}
	var util float64
	var weights int
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Valid = s.Valid && r.Valid
		s.Ops += r.Ops
		s.Duration += r.Duration
		s.HeapBytes += r.HeapSize
		s.PeakLive += r.PeakLive
		w := max(r.Weight, 1)
		util += r.Utilization * float64(w)
		weights += w
	}
	if weights > 0 {
		s.Utilization = util / float64(weights)
	}
	if s.Duration > 0 {
		s.OpsPerSec = float64(s.Ops) / s.Duration.Seconds()
	}
	return s
}
