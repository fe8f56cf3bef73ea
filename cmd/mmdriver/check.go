package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/trace"
)

var checkOps int

func init() {
	cmd := newCheckCmd()
	cmd.Flags().IntVar(&checkOps, "ops", 0, "Stop after this many operations (0 replays all)")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace with full heap verification and print the block map",
		Long: `The check command replays one trace in strict mode, verifying every heap
invariant after each operation, and prints the block layout of the heap where
the replay stopped.

Example:
  mmdriver check short1.rep
  mmdriver check binary.rep --ops 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args)
		},
	}
	return cmd
}

func runCheck(ctx context.Context, args []string) error {
	t, err := trace.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	opts := driverOptions(cfg)
	opts.Strict = true
	opts.Check = true
	opts.Snapshot = true
	opts.StopAfter = checkOps

	res, err := driver.Run(ctx, t, opts)
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printBlockMap(res)
	}
	if !res.Valid {
		return fmt.Errorf("%s: %s", res.Name, res.Failure)
	}
	return nil
}

func printBlockMap(res *driver.Result) {
	printInfo("Trace %s: %s ops replayed, heap %s bytes\n",
		res.Name, formatNumber(int64(res.Ops)), formatNumber(int64(res.HeapSize)))
	printInfo("%10s %10s %10s  %s\n", "OFFSET", "SIZE", "PAYLOAD", "STATE")
	for _, b := range res.Blocks {
		state := "free"
		if b.Allocated {
			state = "allocated"
		}
		printInfo("%10d %10d %10d  %s\n", b.Ptr, b.Size, b.PayloadSize(), state)
	}
	u := res.Usage
	printInfo("\n%d blocks: %d allocated (%s payload), %d free (%s, largest %s)\n",
		u.Blocks, u.AllocatedBlocks, formatBytes(int64(u.PayloadBytes)),
		u.FreeBlocks, formatBytes(int64(u.FreeBytes)), formatBytes(int64(u.LargestFree)))
	if res.Valid {
		printInfo("Heap OK\n")
	} else {
		printInfo("FAILED: %s\n", res.Failure)
	}
}
