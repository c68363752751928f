package anneal

import (
	"github.com/rxforge/rxforge/internal/pattern"
	"github.com/rxforge/rxforge/internal/score"
)

// Candidate is one fully formed pattern proposal: its tree, serialized
// text, complexity, and cached score. Candidates are immutable; a
// mutation always produces a new Candidate, which makes accept/reject
// and rollback a pointer swap.
type Candidate struct {
	Tree       pattern.Node
	Text       string
	Complexity int
	Score      score.Breakdown
}

func newCandidate(tree pattern.Node, ev *score.Evaluator) Candidate {
	return Candidate{
		Tree:       tree,
		Text:       pattern.Serialize(tree),
		Complexity: pattern.Complexity(tree),
		Score:      ev.Score(tree),
	}
}

// betterThan reports whether c strictly beats other. Equal totals are
// broken by lower complexity, then by lexicographic order of the
// serialized text, so runs are reproducible down to the tie-breaks.
func (c Candidate) betterThan(other Candidate) bool {
	if c.Score.Total != other.Score.Total {
		return c.Score.Total > other.Score.Total
	}
	if c.Complexity != other.Complexity {
		return c.Complexity < other.Complexity
	}
	return c.Text < other.Text
}
