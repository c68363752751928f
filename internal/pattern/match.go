package pattern

// Verdict is the outcome of one bounded match attempt.
type Verdict int

const (
	// Matched means the pattern matched the entire input.
	Matched Verdict = iota
	// NotMatched means the pattern definitively failed to match.
	NotMatched
	// Timeout means the step budget ran out before a definitive answer.
	// Callers treat Timeout as NotMatched for correctness and record it
	// as a performance fault.
	Timeout
)

// String returns a human-readable string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case Matched:
		return "matched"
	case NotMatched:
		return "not_matched"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome carries the verdict of a bounded match plus the number of
// interpreter steps it consumed. Steps are deterministic for a given
// (tree, input) pair, which keeps everything built on top of them
// reproducible.
type Outcome struct {
	Verdict Verdict
	Steps   int
}

// Match runs the tree as a backtracking matcher against the whole input
// under a hard step budget. The budget is enforced inside the matching
// loop itself: a pathological pattern is cut off mid-backtrack rather
// than detected after the fact, so a single call can never stall the
// search longer than budget steps.
func Match(root Node, input string, budget int) Outcome {
	m := &machine{in: []rune(input), budget: budget}
	ok := m.match(root, 0, func(pos int) bool {
		return pos == len(m.in)
	})
	switch {
	case ok:
		return Outcome{Verdict: Matched, Steps: m.steps}
	case m.exhausted:
		return Outcome{Verdict: Timeout, Steps: m.steps}
	default:
		return Outcome{Verdict: NotMatched, Steps: m.steps}
	}
}

type machine struct {
	in        []rune
	budget    int
	steps     int
	exhausted bool
}

// tick consumes one step of budget. Once the budget is exhausted every
// pending branch unwinds with failure.
func (m *machine) tick() bool {
	if m.exhausted {
		return false
	}
	m.steps++
	if m.steps > m.budget {
		m.exhausted = true
		return false
	}
	return true
}

// match attempts to match n starting at pos. On success it calls the
// continuation k with the position just past the match; k returning
// false triggers backtracking into the remaining possibilities of n.
func (m *machine) match(n Node, pos int, k func(int) bool) bool {
	if !m.tick() {
		return false
	}
	switch t := n.(type) {
	case *Literal:
		for _, r := range t.Text {
			if pos >= len(m.in) || m.in[pos] != r {
				return false
			}
			pos++
		}
		return k(pos)
	case *CharClass:
		if pos >= len(m.in) || !t.Contains(m.in[pos]) {
			return false
		}
		return k(pos + 1)
	case *Sequence:
		return m.seq(t.Children, pos, k)
	case *Alternation:
		for _, c := range t.Children {
			if m.match(c, pos, k) {
				return true
			}
			if m.exhausted {
				return false
			}
		}
		return false
	case *Group:
		return m.match(t.Child, pos, k)
	case *Quantifier:
		return m.repeat(t, 0, pos, k)
	case *Anchor:
		if !m.anchorHolds(t.Kind, pos) {
			return false
		}
		return k(pos)
	default:
		return false
	}
}

func (m *machine) seq(children []Node, pos int, k func(int) bool) bool {
	if len(children) == 0 {
		return k(pos)
	}
	return m.match(children[0], pos, func(p int) bool {
		return m.seq(children[1:], p, k)
	})
}

// repeat handles the n-th repetition of a quantifier. Repetitions that
// consume no input are cut off once the minimum is satisfied, so a
// zero-width child cannot loop forever.
func (m *machine) repeat(q *Quantifier, n, pos int, k func(int) bool) bool {
	if m.exhausted {
		return false
	}
	if n < q.Min {
		return m.match(q.Child, pos, func(p int) bool {
			return m.repeat(q, n+1, p, k)
		})
	}
	if q.Max != Unbounded && n >= q.Max {
		return k(pos)
	}
	if q.Greedy {
		if m.match(q.Child, pos, func(p int) bool {
			if p == pos {
				return false
			}
			return m.repeat(q, n+1, p, k)
		}) {
			return true
		}
		if m.exhausted {
			return false
		}
		return k(pos)
	}
	if k(pos) {
		return true
	}
	if m.exhausted {
		return false
	}
	return m.match(q.Child, pos, func(p int) bool {
		if p == pos {
			return false
		}
		return m.repeat(q, n+1, p, k)
	})
}

func (m *machine) anchorHolds(kind AnchorKind, pos int) bool {
	switch kind {
	case AnchorBegin:
		return pos == 0
	case AnchorEnd:
		return pos == len(m.in)
	case AnchorWordBoundary:
		return m.wordBefore(pos) != m.wordAt(pos)
	case AnchorNonWordBoundary:
		return m.wordBefore(pos) == m.wordAt(pos)
	default:
		return false
	}
}

func (m *machine) wordBefore(pos int) bool {
	return pos > 0 && isWordRune(m.in[pos-1])
}

func (m *machine) wordAt(pos int) bool {
	return pos < len(m.in) && isWordRune(m.in[pos])
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
