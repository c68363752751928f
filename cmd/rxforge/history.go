package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/report"
	"github.com/rxforge/rxforge/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past synthesis runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewSQLite(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s\n", gray("no runs recorded"))
			return nil
		}
		for _, run := range runs {
			report.WriteRunListing(os.Stdout, run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.Result.BestPatternText, run.Result.Score, string(run.Result.ConvergenceReason))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewSQLite(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer store.Close()

		run, err := store.GetRun(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no run with ID %s", args[0])
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Run "+run.ID+" ==="))
		fmt.Printf("Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("%s\n\n", gray(fmt.Sprintf("profile=%s schedule=%s dialect=%s seed=%d",
			run.Profile, run.Schedule, run.Dialect, run.Seed)))

		for _, p := range run.Positives {
			fmt.Printf("  %s %q\n", green("+"), p)
		}
		for _, n := range run.Negatives {
			fmt.Printf("  %s %q\n", red("-"), n)
		}

		fmt.Printf("\nPattern:    %s\n", green(run.Result.BestPatternText))
		fmt.Printf("Score:      %.4f\n", run.Result.Score)
		fmt.Printf("Complexity: %d\n", run.Result.Complexity)
		fmt.Printf("Stopped:    %s after %d iteration(s), %dms\n\n",
			run.Result.ConvergenceReason, run.Result.Iterations, run.Result.ElapsedMs)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
