package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
	"github.com/rxforge/rxforge/internal/report"
	"github.com/rxforge/rxforge/internal/score"
	"github.com/rxforge/rxforge/internal/storage"
)

var (
	synthPositives []string
	synthNegatives []string
	synthPosFile   string
	synthNegFile   string
	synthProfile   string
	synthSchedule  string
	synthDialect   string
	synthSeed      int64
	synthIters     int
	synthTimeout   int
	synthMaxComp   int
	synthSave      bool
	synthQuiet     bool
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize a pattern from example strings",
	Long: `Search for a regular expression matching every positive example
and rejecting every negative one.

Examples come from repeated --pos/--neg flags, from files with one
example per line (--pos-file/--neg-file), or both. At least one
positive example is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := gatherExamples()
		if err != nil {
			return err
		}

		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}
		applySynthFlags(cmd, &cfg)

		ctrl, err := anneal.New(set, cfg)
		if err != nil {
			return err
		}

		var printer *report.ProgressPrinter
		if !synthQuiet && !jsonOutput {
			printer = report.NewProgressPrinter(os.Stderr, 10)
			ctrl.OnProgress(printer.Update)
		}

		result, err := ctrl.Run(context.Background())
		if printer != nil {
			printer.Finish()
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := report.WriteJSON(os.Stdout, result); err != nil {
				return err
			}
		} else {
			report.WriteText(os.Stdout, set, result)
		}

		if synthSave {
			store, err := storage.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer store.Close()
			id, err := store.SaveRun(context.Background(), set, cfg, result)
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			if !jsonOutput {
				green := color.New(color.FgGreen).SprintFunc()
				fmt.Printf("%s saved run %s\n", green("✓"), id)
			}
		}

		if result.ConvergenceReason == anneal.ReasonFailed {
			os.Exit(1)
		}
		return nil
	},
}

func gatherExamples() (*examples.Set, error) {
	positives := append([]string(nil), synthPositives...)
	negatives := append([]string(nil), synthNegatives...)

	if synthPosFile != "" {
		lines, err := examples.LoadFile(synthPosFile)
		if err != nil {
			return nil, err
		}
		positives = append(positives, lines...)
	}
	if synthNegFile != "" {
		lines, err := examples.LoadFile(synthNegFile)
		if err != nil {
			return nil, err
		}
		negatives = append(negatives, lines...)
	}
	return examples.New(positives, negatives)
}

// applySynthFlags layers explicitly-set flags over the loaded config,
// so a config file and flags compose instead of conflicting.
func applySynthFlags(cmd *cobra.Command, cfg *anneal.Config) {
	if cmd.Flags().Changed("profile") {
		cfg.Profile = score.Profile(synthProfile)
	}
	if cmd.Flags().Changed("schedule") {
		cfg.CoolingSchedule = anneal.Schedule(synthSchedule)
	}
	if cmd.Flags().Changed("dialect") {
		cfg.Dialect = pattern.Dialect(synthDialect)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = synthSeed
	}
	if cmd.Flags().Changed("iterations") {
		cfg.MaxIterations = synthIters
	}
	if cmd.Flags().Changed("timeout-ms") {
		cfg.TimeoutMs = synthTimeout
	}
	if cmd.Flags().Changed("max-complexity") {
		cfg.MaxComplexity = synthMaxComp
	}
}

func init() {
	synthCmd.Flags().StringArrayVar(&synthPositives, "pos", nil, "positive example (repeatable)")
	synthCmd.Flags().StringArrayVar(&synthNegatives, "neg", nil, "negative example (repeatable)")
	synthCmd.Flags().StringVar(&synthPosFile, "pos-file", "", "file of positive examples, one per line")
	synthCmd.Flags().StringVar(&synthNegFile, "neg-file", "", "file of negative examples, one per line")
	synthCmd.Flags().StringVar(&synthProfile, "profile", string(score.ProfileBalanced), "fitness profile: minimal, readable, balanced")
	synthCmd.Flags().StringVar(&synthSchedule, "schedule", string(anneal.ScheduleAdaptive), "cooling schedule: linear, exponential, logarithmic, adaptive")
	synthCmd.Flags().StringVar(&synthDialect, "dialect", string(pattern.DialectGo), "target regex dialect: go, ecmascript, dotnet")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 1, "random seed; identical inputs and seed replay identically")
	synthCmd.Flags().IntVar(&synthIters, "iterations", 1000, "maximum annealing iterations")
	synthCmd.Flags().IntVar(&synthTimeout, "timeout-ms", 10000, "wall-clock budget in milliseconds (0 disables)")
	synthCmd.Flags().IntVar(&synthMaxComp, "max-complexity", 50, "maximum candidate complexity")
	synthCmd.Flags().BoolVar(&synthSave, "save", false, "persist the result to run history")
	synthCmd.Flags().BoolVarP(&synthQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(synthCmd)
}
