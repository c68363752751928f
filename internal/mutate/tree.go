package mutate

import "github.com/rxforge/rxforge/internal/pattern"

// path addresses a node inside a tree as the sequence of child indices
// from the root. Group and Quantifier children sit at index 0.
type path []int

// collectPaths lists every node location in preorder. The ordering is
// deterministic for a given tree, which keeps location draws replayable.
func collectPaths(root pattern.Node) []path {
	var out []path
	var walk func(n pattern.Node, p path)
	walk = func(n pattern.Node, p path) {
		out = append(out, append(path(nil), p...))
		switch t := n.(type) {
		case *pattern.Sequence:
			for i, c := range t.Children {
				walk(c, append(p, i))
			}
		case *pattern.Alternation:
			for i, c := range t.Children {
				walk(c, append(p, i))
			}
		case *pattern.Group:
			walk(t.Child, append(p, 0))
		case *pattern.Quantifier:
			walk(t.Child, append(p, 0))
		}
	}
	walk(root, nil)
	return out
}

func nodeAt(root pattern.Node, p path) pattern.Node {
	n := root
	for _, idx := range p {
		switch t := n.(type) {
		case *pattern.Sequence:
			n = t.Children[idx]
		case *pattern.Alternation:
			n = t.Children[idx]
		case *pattern.Group:
			n = t.Child
		case *pattern.Quantifier:
			n = t.Child
		default:
			return nil
		}
	}
	return n
}

// rebuild returns a new tree with the node at p replaced. Only the spine
// from the root to the edit point is copied; all other subtrees are
// shared with the original, which stays untouched.
func rebuild(root pattern.Node, p path, repl pattern.Node) pattern.Node {
	if len(p) == 0 {
		return repl
	}
	idx := p[0]
	switch t := root.(type) {
	case *pattern.Sequence:
		children := make([]pattern.Node, len(t.Children))
		copy(children, t.Children)
		children[idx] = rebuild(children[idx], p[1:], repl)
		return &pattern.Sequence{Children: children}
	case *pattern.Alternation:
		children := make([]pattern.Node, len(t.Children))
		copy(children, t.Children)
		children[idx] = rebuild(children[idx], p[1:], repl)
		return &pattern.Alternation{Children: children}
	case *pattern.Group:
		return &pattern.Group{Child: rebuild(t.Child, p[1:], repl), Capturing: t.Capturing}
	case *pattern.Quantifier:
		return &pattern.Quantifier{Child: rebuild(t.Child, p[1:], repl), Min: t.Min, Max: t.Max, Greedy: t.Greedy}
	default:
		return root
	}
}
