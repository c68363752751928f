package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/batch"
)

var batchParallelism int

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run many synthesis tasks from a YAML file",
	Long: `Run every task in a YAML batch file, in parallel up to the
concurrency limit. Each task names its own examples and may override
the shared defaults:

  defaults:
    max_iterations: 2000
  tasks:
    - name: digits
      positives: ["123", "456"]
      negatives: ["12a"]
      seed: 7

Exits non-zero when any task fails to start or fails outright.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := batch.Load(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}

		results := batch.Run(context.Background(), f, cfg, batchParallelism)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		} else {
			printBatchResults(results)
		}

		for _, r := range results {
			if r.Err != nil {
				os.Exit(1)
			}
		}
		return nil
	},
}

func printBatchResults(results []batch.TaskResult) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("%s %-20s %s\n", red("✗"), r.Name, r.Err)
		case r.Result.ConvergenceReason == anneal.ReasonPerfect:
			fmt.Printf("%s %-20s %s  score=%.4f  %s\n",
				green("✓"), r.Name, r.Result.BestPatternText, r.Result.Score, r.Result.ConvergenceReason)
		default:
			fmt.Printf("%s %-20s %s  score=%.4f  %s\n",
				yellow("•"), r.Name, r.Result.BestPatternText, r.Result.Score, r.Result.ConvergenceReason)
		}
	}
}

func init() {
	batchCmd.Flags().IntVarP(&batchParallelism, "parallelism", "p", 0, "maximum concurrent tasks (0 = number of CPUs)")
	rootCmd.AddCommand(batchCmd)
}
