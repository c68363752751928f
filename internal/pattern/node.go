package pattern

import (
	"fmt"
	"sort"
)

// Unbounded marks a quantifier with no upper repetition limit.
const Unbounded = -1

// Node is a single node in a pattern tree. The variant set is closed:
// Literal, CharClass, Sequence, Alternation, Group, Quantifier, Anchor.
// Nodes are immutable once constructed; edits always build new nodes,
// sharing untouched subtrees.
type Node interface {
	node()
}

// Literal matches an exact run of characters.
type Literal struct {
	Text string
}

// CharRange is an inclusive range of characters inside a character class.
// A single character is represented as Lo == Hi.
type CharRange struct {
	Lo, Hi rune
}

// CharClass matches any single character covered by its ranges,
// or any character not covered when Negated is set.
type CharClass struct {
	Ranges  []CharRange
	Negated bool
}

// Sequence matches its children in order.
type Sequence struct {
	Children []Node
}

// Alternation matches any one of its children. Children are kept in a
// stable order so serialization is reproducible, but the order carries
// no meaning.
type Alternation struct {
	Children []Node
}

// Group wraps a child in a capturing or non-capturing group.
type Group struct {
	Child     Node
	Capturing bool
}

// Quantifier repeats its child between Min and Max times.
// Max may be Unbounded. Lazy matching is the complement of Greedy.
type Quantifier struct {
	Child  Node
	Min    int
	Max    int
	Greedy bool
}

// AnchorKind identifies a zero-width position assertion.
type AnchorKind int

const (
	AnchorBegin AnchorKind = iota // ^
	AnchorEnd                     // $
	AnchorWordBoundary            // \b
	AnchorNonWordBoundary         // \B
)

// Anchor matches a position rather than a character.
type Anchor struct {
	Kind AnchorKind
}

func (*Literal) node()     {}
func (*CharClass) node()   {}
func (*Sequence) node()    {}
func (*Alternation) node() {}
func (*Group) node()       {}
func (*Quantifier) node()  {}
func (*Anchor) node()      {}

// NewCharClass builds a character class from the given ranges. The ranges
// are normalized (sorted, overlaps merged) so that equal classes always
// serialize identically. An empty class is rejected: it cannot serialize
// to compilable text.
func NewCharClass(negated bool, ranges ...CharRange) (*CharClass, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("character class must contain at least one range")
	}
	for _, r := range ranges {
		if r.Lo > r.Hi {
			return nil, fmt.Errorf("invalid character range %q-%q", r.Lo, r.Hi)
		}
	}
	return &CharClass{Ranges: normalizeRanges(ranges), Negated: negated}, nil
}

// NewAlternation builds an alternation. At least one branch is required;
// a zero-branch alternation has no serialized form.
func NewAlternation(children ...Node) (*Alternation, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("alternation must have at least one branch")
	}
	for _, c := range children {
		if c == nil {
			return nil, fmt.Errorf("alternation branch is nil")
		}
	}
	return &Alternation{Children: children}, nil
}

// NewQuantifier builds a quantifier over child. Anchors cannot be
// quantified: text like `^*` is rejected by most dialects.
func NewQuantifier(child Node, min, max int, greedy bool) (*Quantifier, error) {
	if child == nil {
		return nil, fmt.Errorf("quantifier child is nil")
	}
	if _, ok := child.(*Anchor); ok {
		return nil, fmt.Errorf("anchors cannot be quantified")
	}
	if min < 0 {
		return nil, fmt.Errorf("quantifier minimum %d is negative", min)
	}
	if max != Unbounded && max < min {
		return nil, fmt.Errorf("quantifier maximum %d is below minimum %d", max, min)
	}
	return &Quantifier{Child: child, Min: min, Max: max, Greedy: greedy}, nil
}

// Validate checks that every node reachable from n can serialize into
// compilable pattern text and that nesting stays within maxDepth.
// maxDepth <= 0 disables the depth check.
func Validate(n Node, maxDepth int) error {
	return validate(n, 1, maxDepth)
}

func validate(n Node, depth, maxDepth int) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if maxDepth > 0 && depth > maxDepth {
		return fmt.Errorf("tree depth exceeds maximum %d", maxDepth)
	}
	switch t := n.(type) {
	case *Literal, *Anchor:
		return nil
	case *CharClass:
		if len(t.Ranges) == 0 {
			return fmt.Errorf("empty character class")
		}
		for _, r := range t.Ranges {
			if r.Lo > r.Hi {
				return fmt.Errorf("invalid character range %q-%q", r.Lo, r.Hi)
			}
		}
		return nil
	case *Sequence:
		for _, c := range t.Children {
			if err := validate(c, depth+1, maxDepth); err != nil {
				return err
			}
		}
		return nil
	case *Alternation:
		if len(t.Children) == 0 {
			return fmt.Errorf("empty alternation")
		}
		for _, c := range t.Children {
			if err := validate(c, depth+1, maxDepth); err != nil {
				return err
			}
		}
		return nil
	case *Group:
		return validate(t.Child, depth+1, maxDepth)
	case *Quantifier:
		if _, ok := t.Child.(*Anchor); ok {
			return fmt.Errorf("anchors cannot be quantified")
		}
		if t.Min < 0 || (t.Max != Unbounded && t.Max < t.Min) {
			return fmt.Errorf("invalid quantifier bounds {%d,%d}", t.Min, t.Max)
		}
		return validate(t.Child, depth+1, maxDepth)
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
}

// Clone returns a deep structural copy of n. Child slices are copied so
// the result can be rebuilt along any path without touching the source;
// leaf contents are shared, which is safe because nodes are immutable.
func Clone(n Node) Node {
	switch t := n.(type) {
	case *Literal:
		return &Literal{Text: t.Text}
	case *CharClass:
		ranges := make([]CharRange, len(t.Ranges))
		copy(ranges, t.Ranges)
		return &CharClass{Ranges: ranges, Negated: t.Negated}
	case *Sequence:
		children := make([]Node, len(t.Children))
		for i, c := range t.Children {
			children[i] = Clone(c)
		}
		return &Sequence{Children: children}
	case *Alternation:
		children := make([]Node, len(t.Children))
		for i, c := range t.Children {
			children[i] = Clone(c)
		}
		return &Alternation{Children: children}
	case *Group:
		return &Group{Child: Clone(t.Child), Capturing: t.Capturing}
	case *Quantifier:
		return &Quantifier{Child: Clone(t.Child), Min: t.Min, Max: t.Max, Greedy: t.Greedy}
	case *Anchor:
		return &Anchor{Kind: t.Kind}
	default:
		return nil
	}
}

// Complexity combines node weight, nesting depth, and quantifier-range
// spread into a single integer. Lower is simpler. The scale follows the
// per-node costs used by the fitness evaluator's minimality criterion.
func Complexity(n Node) int {
	return nodeCost(n) + Depth(n)
}

func nodeCost(n Node) int {
	switch t := n.(type) {
	case *Literal:
		return len(t.Text)
	case *CharClass:
		return 2 + len(t.Ranges)
	case *Sequence:
		total := 0
		for _, c := range t.Children {
			total += nodeCost(c)
		}
		return total
	case *Alternation:
		total := len(t.Children) - 1
		for _, c := range t.Children {
			total += nodeCost(c)
		}
		return total
	case *Group:
		return nodeCost(t.Child) + 2
	case *Quantifier:
		cost := nodeCost(t.Child) + 2
		if t.Max == Unbounded {
			cost += 2
		} else {
			cost += (t.Max - t.Min) / 4
		}
		return cost
	case *Anchor:
		return 1
	default:
		return 0
	}
}

// Depth returns the maximum nesting depth of the tree rooted at n.
func Depth(n Node) int {
	switch t := n.(type) {
	case *Sequence:
		max := 0
		for _, c := range t.Children {
			if d := Depth(c); d > max {
				max = d
			}
		}
		return max + 1
	case *Alternation:
		max := 0
		for _, c := range t.Children {
			if d := Depth(c); d > max {
				max = d
			}
		}
		return max + 1
	case *Group:
		return Depth(t.Child) + 1
	case *Quantifier:
		return Depth(t.Child) + 1
	default:
		return 1
	}
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n Node) int {
	switch t := n.(type) {
	case *Sequence:
		total := 1
		for _, c := range t.Children {
			total += CountNodes(c)
		}
		return total
	case *Alternation:
		total := 1
		for _, c := range t.Children {
			total += CountNodes(c)
		}
		return total
	case *Group:
		return CountNodes(t.Child) + 1
	case *Quantifier:
		return CountNodes(t.Child) + 1
	default:
		return 1
	}
}

func normalizeRanges(ranges []CharRange) []CharRange {
	sorted := make([]CharRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lo != sorted[j].Lo {
			return sorted[i].Lo < sorted[j].Lo
		}
		return sorted[i].Hi < sorted[j].Hi
	})
	merged := sorted[:0]
	for _, r := range sorted {
		if len(merged) > 0 && r.Lo <= merged[len(merged)-1].Hi+1 {
			if r.Hi > merged[len(merged)-1].Hi {
				merged[len(merged)-1].Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Contains reports whether the class matches character r, accounting for
// negation.
func (c *CharClass) Contains(r rune) bool {
	in := false
	for _, cr := range c.Ranges {
		if r >= cr.Lo && r <= cr.Hi {
			in = true
			break
		}
	}
	if c.Negated {
		return !in
	}
	return in
}
