package mutate

import (
	"math/rand"

	"github.com/rxforge/rxforge/internal/pattern"
)

// Operator is one validity-preserving structural edit. Implementations
// must be pure: the input node is never modified, and all randomness
// comes from the supplied generator. Apply returns nil when the edit
// turns out not to apply after all.
//
// The operator list is a closed, registered set; adding an operator
// means appending to defaultOperators.
type Operator interface {
	Name() string
	Applicable(n pattern.Node) bool
	Apply(n pattern.Node, rng *rand.Rand) pattern.Node
}

func defaultOperators() []Operator {
	return []Operator{
		literalToClass{},
		classToLiteral{},
		rangeMerge{},
		rangeSplit{},
		quantifierWiden{},
		quantifierNarrow{},
		lazinessToggle{},
		quantifierWrap{},
		groupWrap{},
		groupUnwrap{},
		branchAdd{},
		branchDrop{},
		elementInsert{},
		elementRemove{},
		anchorAdd{},
		anchorRemove{},
	}
}

// literalToClass generalizes a single-character literal into the
// conventional class for its category, e.g. "7" -> [0-9].
type literalToClass struct{}

func (literalToClass) Name() string { return "literal_to_class" }

func (literalToClass) Applicable(n pattern.Node) bool {
	l, ok := n.(*pattern.Literal)
	if !ok {
		return false
	}
	r := []rune(l.Text)
	return len(r) == 1 && categoryRange(r[0]) != nil
}

func (literalToClass) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	l := n.(*pattern.Literal)
	cr := categoryRange([]rune(l.Text)[0])
	if cr == nil {
		return nil
	}
	return &pattern.CharClass{Ranges: []pattern.CharRange{*cr}}
}

func categoryRange(r rune) *pattern.CharRange {
	switch {
	case r >= '0' && r <= '9':
		return &pattern.CharRange{Lo: '0', Hi: '9'}
	case r >= 'a' && r <= 'z':
		return &pattern.CharRange{Lo: 'a', Hi: 'z'}
	case r >= 'A' && r <= 'Z':
		return &pattern.CharRange{Lo: 'A', Hi: 'Z'}
	default:
		return nil
	}
}

// classToLiteral specializes a single-character class back into a
// literal, the inverse of literalToClass.
type classToLiteral struct{}

func (classToLiteral) Name() string { return "class_to_literal" }

func (classToLiteral) Applicable(n pattern.Node) bool {
	c, ok := n.(*pattern.CharClass)
	return ok && !c.Negated && len(c.Ranges) == 1 && c.Ranges[0].Lo == c.Ranges[0].Hi
}

func (classToLiteral) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	c := n.(*pattern.CharClass)
	return &pattern.Literal{Text: string(c.Ranges[0].Lo)}
}

// rangeMerge widens a class by fusing two neighboring ranges across the
// gap between them.
type rangeMerge struct{}

func (rangeMerge) Name() string { return "range_merge" }

func (rangeMerge) Applicable(n pattern.Node) bool {
	c, ok := n.(*pattern.CharClass)
	return ok && len(c.Ranges) >= 2
}

func (rangeMerge) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	c := n.(*pattern.CharClass)
	i := rng.Intn(len(c.Ranges) - 1)
	ranges := make([]pattern.CharRange, 0, len(c.Ranges)-1)
	ranges = append(ranges, c.Ranges[:i]...)
	ranges = append(ranges, pattern.CharRange{Lo: c.Ranges[i].Lo, Hi: c.Ranges[i+1].Hi})
	ranges = append(ranges, c.Ranges[i+2:]...)
	return &pattern.CharClass{Ranges: ranges, Negated: c.Negated}
}

// rangeSplit cuts a wide range in two at a random point. Coverage is
// preserved; the split gives later merges and drops finer material to
// work with.
type rangeSplit struct{}

func (rangeSplit) Name() string { return "range_split" }

func (rangeSplit) Applicable(n pattern.Node) bool {
	c, ok := n.(*pattern.CharClass)
	if !ok {
		return false
	}
	for _, r := range c.Ranges {
		if r.Hi > r.Lo+1 {
			return true
		}
	}
	return false
}

func (rangeSplit) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	c := n.(*pattern.CharClass)
	var wide []int
	for i, r := range c.Ranges {
		if r.Hi > r.Lo+1 {
			wide = append(wide, i)
		}
	}
	i := wide[rng.Intn(len(wide))]
	r := c.Ranges[i]
	cut := r.Lo + rune(rng.Intn(int(r.Hi-r.Lo)))
	ranges := make([]pattern.CharRange, 0, len(c.Ranges)+1)
	ranges = append(ranges, c.Ranges[:i]...)
	ranges = append(ranges, pattern.CharRange{Lo: r.Lo, Hi: cut}, pattern.CharRange{Lo: cut + 1, Hi: r.Hi})
	ranges = append(ranges, c.Ranges[i+1:]...)
	return &pattern.CharClass{Ranges: ranges, Negated: c.Negated}
}

// quantifierWiden loosens a quantifier by lowering its minimum or
// raising (possibly unbounding) its maximum.
type quantifierWiden struct{}

func (quantifierWiden) Name() string { return "quantifier_widen" }

func (quantifierWiden) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Quantifier)
	return ok
}

func (quantifierWiden) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	q := n.(*pattern.Quantifier)
	min, max := q.Min, q.Max
	if rng.Intn(2) == 0 && min > 0 {
		min--
	} else if max != pattern.Unbounded {
		if rng.Intn(4) == 0 {
			max = pattern.Unbounded
		} else {
			max++
		}
	} else if min > 0 {
		min--
	} else {
		return nil
	}
	return &pattern.Quantifier{Child: q.Child, Min: min, Max: max, Greedy: q.Greedy}
}

// quantifierNarrow tightens a quantifier by raising its minimum or
// lowering its maximum; an unbounded maximum gets pinned down.
type quantifierNarrow struct{}

func (quantifierNarrow) Name() string { return "quantifier_narrow" }

func (quantifierNarrow) Applicable(n pattern.Node) bool {
	q, ok := n.(*pattern.Quantifier)
	return ok && (q.Max == pattern.Unbounded || q.Max > q.Min)
}

func (quantifierNarrow) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	q := n.(*pattern.Quantifier)
	min, max := q.Min, q.Max
	if max == pattern.Unbounded {
		max = min + rng.Intn(5) + 1
	} else if rng.Intn(2) == 0 {
		min++
	} else {
		max--
	}
	if max != pattern.Unbounded && max < min {
		return nil
	}
	return &pattern.Quantifier{Child: q.Child, Min: min, Max: max, Greedy: q.Greedy}
}

// lazinessToggle flips a quantifier between greedy and lazy matching.
type lazinessToggle struct{}

func (lazinessToggle) Name() string { return "laziness_toggle" }

func (lazinessToggle) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Quantifier)
	return ok
}

func (lazinessToggle) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	q := n.(*pattern.Quantifier)
	return &pattern.Quantifier{Child: q.Child, Min: q.Min, Max: q.Max, Greedy: !q.Greedy}
}

// quantifierWrap puts a fresh quantifier around an unquantified node.
type quantifierWrap struct{}

func (quantifierWrap) Name() string { return "quantifier_wrap" }

func (quantifierWrap) Applicable(n pattern.Node) bool {
	switch n.(type) {
	case *pattern.Quantifier, *pattern.Anchor:
		return false
	}
	return true
}

func (quantifierWrap) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	bounds := [][2]int{{0, 1}, {0, pattern.Unbounded}, {1, pattern.Unbounded}, {1, 3}, {2, 4}}
	b := bounds[rng.Intn(len(bounds))]
	q, err := pattern.NewQuantifier(n, b[0], b[1], true)
	if err != nil {
		return nil
	}
	return q
}

// groupWrap wraps a node in a group; grouping only, no language change.
type groupWrap struct{}

func (groupWrap) Name() string { return "group_wrap" }

func (groupWrap) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Group)
	return !ok
}

func (groupWrap) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	return &pattern.Group{Child: n, Capturing: rng.Intn(2) == 0}
}

// groupUnwrap removes a grouping layer.
type groupUnwrap struct{}

func (groupUnwrap) Name() string { return "group_unwrap" }

func (groupUnwrap) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Group)
	return ok
}

func (groupUnwrap) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	return n.(*pattern.Group).Child
}

// branchAdd splits an alternation wider by adding a variant of one of
// its existing branches.
type branchAdd struct{}

func (branchAdd) Name() string { return "branch_add" }

func (branchAdd) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Alternation)
	return ok
}

func (branchAdd) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	a := n.(*pattern.Alternation)
	seed := a.Children[rng.Intn(len(a.Children))]
	variant := similarBranch(seed, rng)
	children := make([]pattern.Node, 0, len(a.Children)+1)
	children = append(children, a.Children...)
	children = append(children, variant)
	return &pattern.Alternation{Children: children}
}

// similarBranch produces a branch in the same shape as the seed: a
// literal gets one character nudged within its category, anything else
// collapses to a short literal.
func similarBranch(seed pattern.Node, rng *rand.Rand) pattern.Node {
	l, ok := seed.(*pattern.Literal)
	if !ok || l.Text == "" {
		return &pattern.Literal{Text: string(rune('a' + rng.Intn(26)))}
	}
	runes := []rune(l.Text)
	i := rng.Intn(len(runes))
	if cr := categoryRange(runes[i]); cr != nil {
		runes[i] = cr.Lo + rune(rng.Intn(int(cr.Hi-cr.Lo)+1))
	}
	return &pattern.Literal{Text: string(runes)}
}

// branchDrop merges an alternation tighter by removing one branch.
type branchDrop struct{}

func (branchDrop) Name() string { return "branch_drop" }

func (branchDrop) Applicable(n pattern.Node) bool {
	a, ok := n.(*pattern.Alternation)
	return ok && len(a.Children) >= 2
}

func (branchDrop) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	a := n.(*pattern.Alternation)
	drop := rng.Intn(len(a.Children))
	children := make([]pattern.Node, 0, len(a.Children)-1)
	children = append(children, a.Children[:drop]...)
	children = append(children, a.Children[drop+1:]...)
	if len(children) == 1 {
		return children[0]
	}
	return &pattern.Alternation{Children: children}
}

// elementInsert adds a zero-effect element to a sequence. The element
// matches the empty string, so the pattern's language is unchanged until
// a later mutation gives it substance.
type elementInsert struct{}

func (elementInsert) Name() string { return "element_insert" }

func (elementInsert) Applicable(n pattern.Node) bool {
	_, ok := n.(*pattern.Sequence)
	return ok
}

func (elementInsert) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	s := n.(*pattern.Sequence)
	at := rng.Intn(len(s.Children) + 1)
	children := make([]pattern.Node, 0, len(s.Children)+1)
	children = append(children, s.Children[:at]...)
	children = append(children, &pattern.Literal{Text: ""})
	children = append(children, s.Children[at:]...)
	return &pattern.Sequence{Children: children}
}

// elementRemove drops a zero-effect element (an empty literal) from a
// sequence.
type elementRemove struct{}

func (elementRemove) Name() string { return "element_remove" }

func (elementRemove) Applicable(n pattern.Node) bool {
	s, ok := n.(*pattern.Sequence)
	if !ok {
		return false
	}
	for _, c := range s.Children {
		if isEmptyLiteral(c) {
			return true
		}
	}
	return false
}

func (elementRemove) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	s := n.(*pattern.Sequence)
	var empties []int
	for i, c := range s.Children {
		if isEmptyLiteral(c) {
			empties = append(empties, i)
		}
	}
	drop := empties[rng.Intn(len(empties))]
	children := make([]pattern.Node, 0, len(s.Children)-1)
	children = append(children, s.Children[:drop]...)
	children = append(children, s.Children[drop+1:]...)
	return &pattern.Sequence{Children: children}
}

func isEmptyLiteral(n pattern.Node) bool {
	l, ok := n.(*pattern.Literal)
	return ok && l.Text == ""
}

// anchorAdd pins a sequence to the start or end of the subject.
type anchorAdd struct{}

func (anchorAdd) Name() string { return "anchor_add" }

func (anchorAdd) Applicable(n pattern.Node) bool {
	s, ok := n.(*pattern.Sequence)
	if !ok {
		return false
	}
	return !hasEdgeAnchor(s)
}

func (anchorAdd) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	s := n.(*pattern.Sequence)
	children := make([]pattern.Node, 0, len(s.Children)+1)
	if rng.Intn(2) == 0 {
		children = append(children, &pattern.Anchor{Kind: pattern.AnchorBegin})
		children = append(children, s.Children...)
	} else {
		children = append(children, s.Children...)
		children = append(children, &pattern.Anchor{Kind: pattern.AnchorEnd})
	}
	return &pattern.Sequence{Children: children}
}

// anchorRemove drops an edge anchor from a sequence.
type anchorRemove struct{}

func (anchorRemove) Name() string { return "anchor_remove" }

func (anchorRemove) Applicable(n pattern.Node) bool {
	s, ok := n.(*pattern.Sequence)
	return ok && hasEdgeAnchor(s)
}

func (anchorRemove) Apply(n pattern.Node, rng *rand.Rand) pattern.Node {
	s := n.(*pattern.Sequence)
	var anchors []int
	for i, c := range s.Children {
		if _, ok := c.(*pattern.Anchor); ok {
			anchors = append(anchors, i)
		}
	}
	drop := anchors[rng.Intn(len(anchors))]
	children := make([]pattern.Node, 0, len(s.Children)-1)
	children = append(children, s.Children[:drop]...)
	children = append(children, s.Children[drop+1:]...)
	return &pattern.Sequence{Children: children}
}

func hasEdgeAnchor(s *pattern.Sequence) bool {
	for _, c := range s.Children {
		if _, ok := c.(*pattern.Anchor); ok {
			return true
		}
	}
	return false
}
