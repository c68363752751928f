package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/time/rate"

	"github.com/rxforge/rxforge/internal/anneal"
)

// ProgressPrinter writes throttled one-line progress updates during a
// search. The annealing loop can emit thousands of updates per second;
// the limiter keeps terminal output readable.
type ProgressPrinter struct {
	w       io.Writer
	limiter *rate.Limiter
	wrote   bool
}

// NewProgressPrinter builds a printer that emits at most maxPerSecond
// lines per second.
func NewProgressPrinter(w io.Writer, maxPerSecond float64) *ProgressPrinter {
	return &ProgressPrinter{
		w:       w,
		limiter: rate.NewLimiter(rate.Limit(maxPerSecond), 1),
	}
}

// Update is an anneal.ProgressFunc. Updates that arrive faster than the
// rate limit are dropped, not queued.
func (p *ProgressPrinter) Update(prog anneal.Progress) {
	if !p.limiter.Allow() {
		return
	}
	p.wrote = true
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintf(p.w, "\r%s", gray(fmt.Sprintf("iter %-6d temp %-8.4f best %.4f  %s",
		prog.Iteration, prog.Temperature, prog.BestScore, truncate(prog.BestText, 40))))
}

// Finish ends the progress line so the report starts on a fresh one.
func (p *ProgressPrinter) Finish() {
	if p.wrote {
		fmt.Fprintln(p.w)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
