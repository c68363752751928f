// Package score evaluates candidate patterns against an example set.
// Scores are deterministic: every input to the final value, including
// the performance criterion, is derived from step counts rather than
// wall-clock time.
package score

import (
	"math"
	"strings"

	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
)

// Profile selects a preset weighting of the four criteria.
type Profile string

const (
	// ProfileMinimal favors the shortest pattern that still works.
	ProfileMinimal Profile = "minimal"
	// ProfileReadable favors flat, human-scannable patterns.
	ProfileReadable Profile = "readable"
	// ProfileBalanced sits between the two.
	ProfileBalanced Profile = "balanced"
)

// IsValid checks if the profile value is supported.
func (p Profile) IsValid() bool {
	switch p {
	case ProfileMinimal, ProfileReadable, ProfileBalanced:
		return true
	}
	return false
}

// Weights holds the relative importance of each criterion. They are
// normalized to sum to 1 before use.
type Weights struct {
	Correctness float64 `yaml:"correctness"`
	Minimality  float64 `yaml:"minimality"`
	Readability float64 `yaml:"readability"`
	Performance float64 `yaml:"performance"`
}

// Weights returns the preset weights for the profile.
func (p Profile) Weights() Weights {
	switch p {
	case ProfileMinimal:
		return Weights{Correctness: 0.6, Minimality: 0.3, Readability: 0.05, Performance: 0.05}
	case ProfileReadable:
		return Weights{Correctness: 0.5, Minimality: 0.1, Readability: 0.3, Performance: 0.1}
	default:
		return Weights{Correctness: 0.5, Minimality: 0.2, Readability: 0.2, Performance: 0.1}
	}
}

func (w Weights) normalized() Weights {
	total := w.Correctness + w.Minimality + w.Readability + w.Performance
	if total <= 0 {
		return ProfileBalanced.Weights().normalized()
	}
	return Weights{
		Correctness: w.Correctness / total,
		Minimality:  w.Minimality / total,
		Readability: w.Readability / total,
		Performance: w.Performance / total,
	}
}

// Config tunes one evaluator.
type Config struct {
	// Profile picks the preset weights; Overrides replaces them
	// entirely when non-nil.
	Profile   Profile
	Overrides *Weights

	// PositiveWeight is the share of the correctness criterion given to
	// matching positives versus rejecting negatives when both cannot be
	// satisfied. Deliberately configurable rather than hard-coded.
	PositiveWeight float64

	// MatchBudget is the step ceiling handed to the matcher per
	// (candidate, example) pair.
	MatchBudget int
}

// DefaultPositiveWeight favors matching positives 4:1 over rejecting
// negatives; an unsatisfied positive is the most severe defect.
const DefaultPositiveWeight = 0.8

// DefaultMatchBudget is the per-match step ceiling.
const DefaultMatchBudget = 20000

// referenceComplexity anchors the minimality curve: a pattern at this
// complexity scores 0.5 on that criterion.
const referenceComplexity = 100

// Breakdown is the full evaluation of one candidate.
type Breakdown struct {
	Total       float64
	Correctness float64
	Minimality  float64
	Readability float64
	Performance float64

	PositiveMatches int
	NegativeRejects int
	TimeoutFaults   int
	StepsUsed       int

	// Invalid marks a candidate whose text failed to compile; it scores
	// the minimum value.
	Invalid    bool
	CompileErr string
}

// Perfect reports whether the candidate fully satisfies the example
// set: every positive matched, every negative rejected, no timeout
// faults. The weighted total cannot reach 1.0 while any structural
// penalty applies, so convergence checks use this instead.
func (b Breakdown) Perfect(set *examples.Set) bool {
	return !b.Invalid &&
		b.PositiveMatches == len(set.Positives) &&
		b.NegativeRejects == len(set.Negatives) &&
		b.TimeoutFaults == 0
}

// Evaluator scores candidates against one example set.
type Evaluator struct {
	set     *examples.Set
	dialect pattern.Dialect
	weights Weights
	cfg     Config
}

// NewEvaluator builds an evaluator. Zero-valued config fields fall back
// to the balanced profile and package defaults.
func NewEvaluator(set *examples.Set, dialect pattern.Dialect, cfg Config) *Evaluator {
	if cfg.Profile == "" {
		cfg.Profile = ProfileBalanced
	}
	if cfg.PositiveWeight <= 0 || cfg.PositiveWeight >= 1 {
		cfg.PositiveWeight = DefaultPositiveWeight
	}
	if cfg.MatchBudget <= 0 {
		cfg.MatchBudget = DefaultMatchBudget
	}
	w := cfg.Profile.Weights()
	if cfg.Overrides != nil {
		w = *cfg.Overrides
	}
	return &Evaluator{set: set, dialect: dialect, weights: w.normalized(), cfg: cfg}
}

// Score evaluates the tree. A tree whose serialized text does not
// compile under the active dialect scores zero and is flagged invalid.
func (ev *Evaluator) Score(tree pattern.Node) Breakdown {
	text := pattern.Serialize(tree)
	if err := ev.dialect.CheckCompile(text); err != nil {
		return Breakdown{Invalid: true, CompileErr: err.Error()}
	}

	b := Breakdown{}
	ev.scoreCorrectness(tree, &b)
	b.Minimality = minimality(pattern.Complexity(tree))
	b.Readability = readability(tree, text)
	b.Performance = ev.performance(&b)

	b.Total = ev.weights.Correctness*b.Correctness +
		ev.weights.Minimality*b.Minimality +
		ev.weights.Readability*b.Readability +
		ev.weights.Performance*b.Performance
	return b
}

// scoreCorrectness drives the matcher over every example exactly once.
// Timeouts count as NotMatched for correctness and are recorded as
// performance faults.
func (ev *Evaluator) scoreCorrectness(tree pattern.Node, b *Breakdown) {
	for _, p := range ev.set.Positives {
		out := pattern.Match(tree, p, ev.cfg.MatchBudget)
		b.StepsUsed += out.Steps
		if out.Verdict == pattern.Matched {
			b.PositiveMatches++
		}
		if out.Verdict == pattern.Timeout {
			b.TimeoutFaults++
		}
	}
	for _, n := range ev.set.Negatives {
		out := pattern.Match(tree, n, ev.cfg.MatchBudget)
		b.StepsUsed += out.Steps
		if out.Verdict != pattern.Matched {
			b.NegativeRejects++
		}
		if out.Verdict == pattern.Timeout {
			b.TimeoutFaults++
		}
	}

	posTotal := len(ev.set.Positives)
	negTotal := len(ev.set.Negatives)
	posRatio := 1.0
	if posTotal > 0 {
		posRatio = float64(b.PositiveMatches) / float64(posTotal)
	}
	negRatio := 1.0
	if negTotal > 0 {
		negRatio = float64(b.NegativeRejects) / float64(negTotal)
	}

	pw := ev.cfg.PositiveWeight
	score := pw*posRatio + (1-pw)*negRatio
	// A candidate that matches no positives at all is nearly worthless
	// no matter how many negatives it rejects.
	if posTotal > 0 && b.PositiveMatches == 0 {
		score *= 0.1
	}
	b.Correctness = score
}

func minimality(complexity int) float64 {
	return 1.0 / (1.0 + float64(complexity)/referenceComplexity)
}

// readability penalizes deep nesting, sprawling pattern text, counted
// quantifiers, and wide alternations.
func readability(tree pattern.Node, text string) float64 {
	score := 1.0
	if d := pattern.Depth(tree); d > 3 {
		score *= math.Pow(0.8, float64(d-3))
	}
	if n := len(text); n > 50 {
		score *= math.Pow(0.9, float64(n-50)/10)
	}
	if n := strings.Count(text, "{"); n > 2 {
		score *= math.Pow(0.95, float64(n-2))
	}
	if n := strings.Count(text, "|"); n > 3 {
		score *= math.Pow(0.9, float64(n-3))
	}
	return clamp01(score)
}

// performance scores step efficiency. Any timeout fault zeroes the
// criterion; otherwise heavier backtracking costs proportionally more.
func (ev *Evaluator) performance(b *Breakdown) float64 {
	if b.TimeoutFaults > 0 {
		return 0
	}
	total := len(ev.set.Positives) + len(ev.set.Negatives)
	if total == 0 {
		return 1
	}
	avg := float64(b.StepsUsed) / float64(total)
	halfBudget := float64(ev.cfg.MatchBudget) / 2
	return 1.0 / (1.0 + avg/halfBudget)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
