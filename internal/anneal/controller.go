// Package anneal runs simulated annealing over pattern trees. One
// controller owns one run: it seeds from the structural analyzer, then
// repeatedly proposes a neighbor, scores it, applies the Metropolis
// rule, cools, and checks termination.
package anneal

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rxforge/rxforge/internal/analyze"
	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/mutate"
	"github.com/rxforge/rxforge/internal/pattern"
	"github.com/rxforge/rxforge/internal/score"
)

// proposer yields neighbor trees for the search loop.
type proposer interface {
	Propose(root pattern.Node, rng *rand.Rand) (pattern.Node, bool)
}

// Progress is a point-in-time view of a running search, handed to the
// progress callback.
type Progress struct {
	Iteration    int
	Temperature  float64
	CurrentScore float64
	BestScore    float64
	BestText     string
}

// ProgressFunc receives progress updates at loop boundaries. It must be
// fast; throttling is the receiver's job.
type ProgressFunc func(Progress)

// Controller drives one annealing run. It exclusively owns the search
// state for the run's lifetime; nothing else mutates it.
type Controller struct {
	cfg      Config
	set      *examples.Set
	engine   proposer
	eval     *score.Evaluator
	progress ProgressFunc
}

// New validates the inputs and builds a controller. Example-set problems
// (empty positives, a string in both lists) are input errors: they
// surface immediately and no search is attempted.
func New(set *examples.Set, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	eval := score.NewEvaluator(set, cfg.Dialect, score.Config{
		Profile:        cfg.Profile,
		Overrides:      cfg.Weights,
		PositiveWeight: cfg.PositiveWeight,
		MatchBudget:    cfg.MatchBudget,
	})
	return &Controller{
		cfg:    cfg,
		set:    set,
		engine: mutate.NewEngine(cfg.Dialect, cfg.MaxDepth),
		eval:   eval,
	}, nil
}

// OnProgress registers a progress callback. Must be called before Run.
func (c *Controller) OnProgress(fn ProgressFunc) {
	c.progress = fn
}

// Run executes the annealing loop to a terminal state and returns the
// best candidate found as a Result. The run consumes one pseudo-random
// stream in a fixed order per iteration (location draws, operator
// draws, operator-internal draws, then the acceptance draw when the
// proposal scored worse), so identical inputs replay identically.
//
// Cancellation and the wall-clock budget take effect at loop boundaries
// only; a match in flight is bounded by the matcher's own step budget.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(c.cfg.Seed))

	seedTree, err := analyze.Seed(c.set)
	if err != nil {
		return nil, err
	}
	current := newCandidate(seedTree, c.eval)
	if current.Score.Invalid {
		// The analyzer's output should always compile; if it does not,
		// no mutation can rescue the run.
		return c.failedResult(start, 0, fmt.Sprintf("seed pattern does not compile: %s", current.Score.CompileErr)), nil
	}
	best := current

	cool := newCooler(c.cfg)
	stagnation := 0
	accepted, rejected := 0, 0
	timeoutFaults := 0
	iterations := 0
	validNeighbors := 0
	reason := ReasonIterationLimit

	for iter := 1; iter <= c.cfg.MaxIterations; iter++ {
		// Loop-boundary checks: external cancellation, wall clock,
		// perfection, stagnation.
		if ctx.Err() != nil {
			reason = ReasonTimeout
			break
		}
		if c.cfg.TimeoutMs > 0 && time.Since(start) >= c.cfg.Timeout() {
			reason = ReasonTimeout
			break
		}
		if best.Score.Perfect(c.set) {
			reason = ReasonPerfect
			break
		}
		if stagnation >= c.cfg.StagnationLimit {
			reason = ReasonNoImprovement
			break
		}

		iterations = iter
		tree, ok := c.engine.Propose(current.Tree, rng)
		if !ok {
			// No applicable edit found: a no-op iteration. The current
			// score is reused; nothing is re-evaluated.
			stagnation++
			cool.cool(iter, false)
			continue
		}

		neighbor := newCandidate(tree, c.eval)
		if neighbor.Score.Invalid {
			rejected++
			stagnation++
			cool.cool(iter, false)
			continue
		}
		validNeighbors++
		if neighbor.Complexity > c.cfg.MaxComplexity {
			rejected++
			stagnation++
			cool.cool(iter, false)
			continue
		}
		timeoutFaults += neighbor.Score.TimeoutFaults

		delta := neighbor.Score.Total - current.Score.Total
		accept := delta >= 0
		if !accept {
			temp := cool.temperature()
			if temp > 0 && rng.Float64() < math.Exp(delta/temp) {
				accept = true
			}
		}

		if accept {
			current = neighbor
			accepted++
			if neighbor.betterThan(best) {
				best = neighbor
				stagnation = 0
			} else {
				stagnation++
			}
		} else {
			rejected++
			stagnation++
		}

		cool.cool(iter, accept)

		if c.progress != nil {
			c.progress(Progress{
				Iteration:    iter,
				Temperature:  cool.temperature(),
				CurrentScore: current.Score.Total,
				BestScore:    best.Score.Total,
				BestText:     best.Text,
			})
		}
	}

	// Terminal conditions that arrive exactly at the last boundary.
	if reason == ReasonIterationLimit {
		if best.Score.Perfect(c.set) {
			reason = ReasonPerfect
		} else if stagnation >= c.cfg.StagnationLimit {
			reason = ReasonNoImprovement
		}
	}

	// A search that ran but never saw a single compilable neighbor did
	// not explore anything; that is a failure, not mere stagnation.
	if (reason == ReasonIterationLimit || reason == ReasonNoImprovement) && iterations > 0 && validNeighbors == 0 {
		return c.failedResult(start, iterations,
			fmt.Sprintf("no mutation produced a compilable candidate in %d iteration(s)", iterations)), nil
	}

	res := &Result{
		BestPatternText:     best.Text,
		Score:               best.Score.Total,
		Complexity:          best.Complexity,
		Iterations:          iterations,
		ElapsedMs:           time.Since(start).Milliseconds(),
		ConvergenceReason:   reason,
		PositiveMatchCount:  best.Score.PositiveMatches,
		NegativeRejectCount: best.Score.NegativeRejects,
		AcceptedMoves:       accepted,
		RejectedMoves:       rejected,
		FinalTemperature:    cool.temperature(),
	}
	if best.Score.TimeoutFaults > 0 {
		res.PerformanceWarnings = append(res.PerformanceWarnings,
			fmt.Sprintf("best pattern hit the match step budget on %d example(s); possible catastrophic backtracking", best.Score.TimeoutFaults))
	}
	if timeoutFaults > 0 {
		res.PerformanceWarnings = append(res.PerformanceWarnings,
			fmt.Sprintf("%d match attempt(s) hit the step budget during the search", timeoutFaults))
	}
	return res, nil
}

func (c *Controller) failedResult(start time.Time, iterations int, diagnostic string) *Result {
	return &Result{
		ConvergenceReason: ReasonFailed,
		Iterations:        iterations,
		ElapsedMs:         time.Since(start).Milliseconds(),
		Diagnostic:        diagnostic,
	}
}
