package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rxforge/rxforge/internal/check"
	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
)

var (
	checkPositives []string
	checkNegatives []string
	checkPosFile   string
	checkNegFile   string
	checkDialect   string
)

var checkCmd = &cobra.Command{
	Use:   "check <pattern>",
	Short: "Validate a pattern against examples and analyze its safety",
	Long: `Check an existing regular expression: does it match every positive
example and reject every negative one under the target dialect's real
engine, and does its structure risk catastrophic backtracking.

Exits non-zero when the pattern misclassifies any example.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]

		positives := append([]string(nil), checkPositives...)
		negatives := append([]string(nil), checkNegatives...)
		if checkPosFile != "" {
			lines, err := examples.LoadFile(checkPosFile)
			if err != nil {
				return err
			}
			positives = append(positives, lines...)
		}
		if checkNegFile != "" {
			lines, err := examples.LoadFile(checkNegFile)
			if err != nil {
				return err
			}
			negatives = append(negatives, lines...)
		}
		set, err := examples.New(positives, negatives)
		if err != nil {
			return err
		}

		dialect := pattern.Dialect(checkDialect)
		if !dialect.IsValid() {
			return fmt.Errorf("invalid dialect: %s", checkDialect)
		}

		rep, err := check.Run(text, set, dialect)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
		} else {
			printCheckReport(rep)
		}

		if !rep.Valid {
			os.Exit(1)
		}
		return nil
	},
}

func printCheckReport(rep *check.Report) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Pattern Check ==="))
	fmt.Printf("Pattern: %s\n", green(rep.Pattern))
	fmt.Printf("Dialect: %s\n\n", rep.Dialect)

	if !rep.Compiled {
		fmt.Printf("%s pattern does not compile: %s\n\n", red("✗"), rep.CompileError)
		return
	}

	if len(rep.Failures) == 0 {
		fmt.Printf("%s all positive examples match\n", green("✓"))
	} else {
		fmt.Printf("%s %d positive example(s) not matched:\n", red("✗"), len(rep.Failures))
		for _, f := range rep.Failures {
			fmt.Printf("    %q\n", f)
		}
	}
	if len(rep.FalseMatches) == 0 {
		fmt.Printf("%s all negative examples rejected\n", green("✓"))
	} else {
		fmt.Printf("%s %d negative example(s) wrongly matched:\n", red("✗"), len(rep.FalseMatches))
		for _, f := range rep.FalseMatches {
			fmt.Printf("    %q\n", f)
		}
	}
	if len(rep.Timeouts) > 0 {
		fmt.Printf("%s %d example(s) timed out in the engine:\n", red("✗"), len(rep.Timeouts))
		for _, f := range rep.Timeouts {
			fmt.Printf("    %q\n", f)
		}
	}

	fmt.Println()
	riskColor := green
	switch rep.Safety.RiskLevel {
	case check.RiskMedium:
		riskColor = yellow
	case check.RiskHigh, check.RiskCritical:
		riskColor = red
	}
	fmt.Printf("Safety: %s (score %d)\n", riskColor(string(rep.Safety.RiskLevel)), rep.Safety.RiskScore)
	for _, w := range rep.Safety.Warnings {
		fmt.Printf("  %s %s\n", yellow("⚠"), w)
	}
	fmt.Println()
}

func init() {
	checkCmd.Flags().StringArrayVar(&checkPositives, "pos", nil, "positive example (repeatable)")
	checkCmd.Flags().StringArrayVar(&checkNegatives, "neg", nil, "negative example (repeatable)")
	checkCmd.Flags().StringVar(&checkPosFile, "pos-file", "", "file of positive examples, one per line")
	checkCmd.Flags().StringVar(&checkNegFile, "neg-file", "", "file of negative examples, one per line")
	checkCmd.Flags().StringVar(&checkDialect, "dialect", string(pattern.DialectGo), "target regex dialect: go, ecmascript, dotnet")
	rootCmd.AddCommand(checkCmd)
}
