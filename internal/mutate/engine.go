// Package mutate proposes validity-preserving edits to pattern trees.
// Every accepted proposal serializes to text that compiles under the
// active dialect; a proposal that cannot is discarded before the caller
// ever sees it.
package mutate

import (
	"math/rand"

	"github.com/rxforge/rxforge/internal/pattern"
)

// maxRetries bounds how many locations one proposal attempt may try
// before the iteration is declared a no-op.
const maxRetries = 8

// Engine proposes neighbor trees. It holds no mutable state of its own:
// all randomness comes from the generator passed to Propose, so the same
// generator stream replays the same proposals.
type Engine struct {
	operators []Operator
	dialect   pattern.Dialect
	maxDepth  int
}

// NewEngine creates an engine with the default operator set.
// maxDepth <= 0 disables the depth cap.
func NewEngine(dialect pattern.Dialect, maxDepth int) *Engine {
	return &Engine{
		operators: defaultOperators(),
		dialect:   dialect,
		maxDepth:  maxDepth,
	}
}

// Operators exposes the registered operator list, mainly for tests and
// diagnostics.
func (e *Engine) Operators() []Operator {
	return e.operators
}

// Propose returns a mutated copy of root, or ok=false when no applicable
// edit produced a compilable tree within the retry bound. A false return
// is a no-op iteration, not an error; the caller keeps its current
// candidate and counts the iteration toward stagnation.
//
// Randomness is consumed in a fixed order per attempt: location draw,
// operator draw, then any draws the operator itself makes. Replaying the
// same generator therefore replays the same proposal sequence.
func (e *Engine) Propose(root pattern.Node, rng *rand.Rand) (pattern.Node, bool) {
	paths := collectPaths(root)
	for attempt := 0; attempt < maxRetries; attempt++ {
		loc := paths[rng.Intn(len(paths))]
		target := nodeAt(root, loc)
		if target == nil {
			continue
		}
		applicable := e.applicableTo(target)
		if len(applicable) == 0 {
			continue
		}
		op := applicable[rng.Intn(len(applicable))]
		repl := op.Apply(target, rng)
		if repl == nil {
			continue
		}
		tree := rebuild(root, loc, repl)
		if pattern.Validate(tree, e.maxDepth) != nil {
			continue
		}
		if e.dialect.CheckCompile(pattern.Serialize(tree)) != nil {
			continue
		}
		return tree, true
	}
	return nil, false
}

func (e *Engine) applicableTo(n pattern.Node) []Operator {
	var out []Operator
	for _, op := range e.operators {
		if op.Applicable(n) {
			out = append(out, op)
		}
	}
	return out
}
