package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/trace"
)

var (
	runArena     string
	runMaxHeap   int
	runChunk     int
	runStrict    bool
	runCheckFlag bool
	runJobs      int
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [trace...]",
		Short: "Replay traces and report utilization and throughput",
		Long: `The run command replays each trace against a fresh heap, checks every
block the allocator returns, and prints per-trace results with a weighted
summary. Without arguments the traces listed in the configuration file are used.

Example:
  mmdriver run traces/*.rep
  mmdriver run --arena mapped --check short1.rep.gz
  mmdriver run --config bench.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyRunFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRun(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&runArena, "arena", config.ArenaMem, "Arena backing the heap (mem or mapped)")
	cmd.Flags().IntVar(&runMaxHeap, "max-heap", 0, "Largest heap in bytes")
	cmd.Flags().IntVar(&runChunk, "chunk", 0, "Minimum heap extension in bytes")
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Reject invalid pointers in free and realloc")
	cmd.Flags().BoolVar(&runCheckFlag, "check", false, "Verify the whole heap after every operation")
	cmd.Flags().IntVarP(&runJobs, "jobs", "j", 0, "Traces replayed concurrently")
	return cmd
}

// applyRunFlags overrides configuration with flags given on the command line.
func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("arena") {
		c.Arena = runArena
	}
	if flags.Changed("max-heap") {
		c.MaxHeap = runMaxHeap
	}
	if flags.Changed("chunk") {
		c.ChunkSize = runChunk
	}
	if flags.Changed("strict") {
		c.Strict = runStrict
	}
	if flags.Changed("check") {
		c.Check = runCheckFlag
	}
	if flags.Changed("jobs") {
		c.Jobs = runJobs
	}
}

func driverOptions(c *config.Config) driver.Options {
	return driver.Options{
		Arena:     c.Arena,
		MaxHeap:   c.MaxHeap,
		ChunkSize: c.ChunkSize,
		Strict:    c.Strict,
		Check:     c.Check,
	}
}

// loadTraces reads the named traces, or the configured ones when none are named.
func loadTraces(args []string, c *config.Config) ([]*trace.Trace, error) {
	specs := make([]config.TraceSpec, 0, len(args))
	for _, a := range args {
		specs = append(specs, config.TraceSpec{Path: a})
	}
	if len(specs) == 0 {
		specs = c.Traces
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no traces given on the command line or in the configuration")
	}

	traces := make([]*trace.Trace, 0, len(specs))
	for _, s := range specs {
		printVerbose("Loading trace: %s\n", s.Path)
		t, err := trace.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", s.Path, err)
		}
		if s.Weight > 0 {
			t.Weight = s.Weight
		}
		traces = append(traces, t)
	}
	return traces, nil
}

type runReport struct {
	Results []*driver.Result `json:"results"`
	Summary driver.Summary   `json:"summary"`
}

func runRun(ctx context.Context, args []string) error {
	traces, err := loadTraces(args, cfg)
	if err != nil {
		return err
	}

	results, err := driver.RunAll(ctx, traces, driverOptions(cfg), cfg.Jobs)
	if err != nil {
		return err
	}
	sum := driver.Summarize(results)

	if jsonOut {
		if err := printJSON(runReport{Results: results, Summary: sum}); err != nil {
			return err
		}
	} else {
		printResults(results, sum)
	}

	if !sum.Valid {
		failed := 0
		for _, r := range results {
			if !r.Valid {
				failed++
			}
		}
		return fmt.Errorf("%d of %d traces failed", failed, len(results))
	}
	return nil
}

func printResults(results []*driver.Result, sum driver.Summary) {
	printInfo("%-24s %5s %10s %8s %12s %14s\n", "TRACE", "VALID", "OPS", "UTIL", "HEAP", "OPS/SEC")
	for _, r := range results {
		valid := "yes"
		if !r.Valid {
			valid = "no"
		}
		printInfo("%-24s %5s %10s %8s %12s %14s\n",
			r.Name, valid, formatNumber(int64(r.Ops)), formatPercent(r.Utilization),
			formatBytes(int64(r.HeapSize)), formatRate(r.OpsPerSec()))
		if !r.Valid {
			printInfo("  %s\n", r.Failure)
		}
		printVerbose("  allocs=%d frees=%d grows=%d splits=%d coalesce=%d/%d/%d/%d dirty_pages=%d\n",
			r.Stats.AllocCalls, r.Stats.FreeCalls, r.Stats.GrowCalls, r.Stats.Splits,
			r.Stats.CoalesceNone, r.Stats.CoalesceForward, r.Stats.CoalesceBackward, r.Stats.CoalesceBoth,
			r.DirtyPages)
	}
	printInfo("%s\n", strings.Repeat("-", 78))
	printInfo("%-24s %5d %10s %8s %12s %14s\n",
		"Total", sum.Traces, formatNumber(int64(sum.Ops)), formatPercent(sum.Utilization),
		formatBytes(int64(sum.HeapBytes)), formatRate(sum.OpsPerSec))
}
