// Package report renders run results for humans and machines. The core
// never prints; everything user-visible goes through here.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
)

// WriteJSON renders the result as indented JSON.
func WriteJSON(w io.Writer, result *anneal.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteText renders a colored, human-readable report.
func WriteText(w io.Writer, set *examples.Set, result *anneal.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n\n", cyan("=== Pattern Synthesis Result ==="))

	if result.ConvergenceReason == anneal.ReasonFailed {
		fmt.Fprintf(w, "%s %s\n\n", red("✗ run failed:"), result.Diagnostic)
		return
	}

	fmt.Fprintf(w, "Pattern:    %s\n", green(result.BestPatternText))
	fmt.Fprintf(w, "Score:      %.4f\n", result.Score)
	fmt.Fprintf(w, "Complexity: %d\n", result.Complexity)

	reasonColor := green
	switch result.ConvergenceReason {
	case anneal.ReasonTimeout, anneal.ReasonIterationLimit:
		reasonColor = yellow
	}
	fmt.Fprintf(w, "Stopped:    %s\n", reasonColor(string(result.ConvergenceReason)))
	fmt.Fprintln(w)

	posIcon := green("✓")
	if result.PositiveMatchCount < len(set.Positives) {
		posIcon = red("✗")
	}
	negIcon := green("✓")
	if result.NegativeRejectCount < len(set.Negatives) {
		negIcon = red("✗")
	}
	fmt.Fprintf(w, "%s Positives matched:  %d/%d\n", posIcon, result.PositiveMatchCount, len(set.Positives))
	fmt.Fprintf(w, "%s Negatives rejected: %d/%d\n", negIcon, result.NegativeRejectCount, len(set.Negatives))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", gray(fmt.Sprintf("iterations=%d accepted=%d rejected=%d elapsed=%dms final_temp=%.4f",
		result.Iterations, result.AcceptedMoves, result.RejectedMoves, result.ElapsedMs, result.FinalTemperature)))

	for _, warning := range result.PerformanceWarnings {
		fmt.Fprintf(w, "%s %s\n", yellow("⚠"), warning)
	}
	fmt.Fprintln(w)
}

// WriteRunListing renders a one-line summary for a stored run.
func WriteRunListing(w io.Writer, id string, created string, pattern string, score float64, reason string) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s  %s  %s  %.4f  %s\n", gray(id[:8]), gray(created), green(pattern), score, reason)
}
