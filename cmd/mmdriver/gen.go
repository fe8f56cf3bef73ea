package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/trace"
)

var (
	genIDs      int
	genMin      int
	genMax      int
	genRealloc  float64
	genReallocs int
	genWeight   int
	genSeed     int64
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genIDs, "ids", 100, "Number of blocks to allocate")
	cmd.Flags().IntVar(&genMin, "min", 1, "Smallest request in bytes")
	cmd.Flags().IntVar(&genMax, "max", 4096, "Largest request in bytes")
	cmd.Flags().Float64Var(&genRealloc, "realloc", 0, "Chance a step resizes a block instead of freeing it")
	cmd.Flags().IntVar(&genReallocs, "max-reallocs", 3, "Resizes per block")
	cmd.Flags().IntVar(&genWeight, "weight", 1, "Trace weight in the summary")
	cmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 picks one from the clock)")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <output>",
		Short: "Generate a random trace file",
		Long: `The gen command writes a random valid trace. The output is compressed
when its name ends in .gz or .zst.

Example:
  mmdriver gen random.rep --ids 500 --max 8192
  mmdriver gen realloc.rep.zst --realloc 0.4 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(args)
		},
	}
	return cmd
}

func runGen(args []string) error {
	out := args[0]
	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if genRealloc < 0 || genRealloc > 1 {
		return fmt.Errorf("--realloc must be between 0 and 1, got %g", genRealloc)
	}

	t := trace.Generate(rand.New(rand.NewSource(seed)), trace.GenOptions{
		NumIDs:      genIDs,
		MinSize:     genMin,
		MaxSize:     genMax,
		ReallocProb: genRealloc,
		MaxReallocs: genReallocs,
		Weight:      genWeight,
	})
	if err := trace.Create(out, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	allocs, reallocs, frees := t.Counts()
	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":     out,
			"seed":     seed,
			"ops":      len(t.Ops),
			"allocs":   allocs,
			"reallocs": reallocs,
			"frees":    frees,
			"peakLive": t.SuggestedHeap,
		})
	}
	printInfo("Wrote %s: %s ops (%d allocs, %d reallocs, %d frees), peak live %s, seed %d\n",
		out, formatNumber(int64(len(t.Ops))), allocs, reallocs, frees,
		formatBytes(int64(t.SuggestedHeap)), seed)
	return nil
}
