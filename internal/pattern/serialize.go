package pattern

import (
	"fmt"
	"strings"
)

// Serialize renders the tree rooted at n as pattern text. For any tree
// accepted by Validate, the output compiles under every supported
// dialect, and serializing the same tree always yields the same text.
func Serialize(n Node) string {
	var b strings.Builder
	writeNode(&b, n, false)
	return b.String()
}

// writeNode appends the serialized form of n. When atom is true the
// output must behave as a single unit under a following quantifier, so
// multi-character literals, sequences, and alternations get wrapped in a
// non-capturing group.
func writeNode(b *strings.Builder, n Node, atom bool) {
	switch t := n.(type) {
	case *Literal:
		if atom && len([]rune(t.Text)) != 1 {
			b.WriteString("(?:")
			writeLiteral(b, t.Text)
			b.WriteString(")")
			return
		}
		writeLiteral(b, t.Text)
	case *CharClass:
		writeClass(b, t)
	case *Sequence:
		if atom {
			b.WriteString("(?:")
		}
		for _, c := range t.Children {
			// An alternation directly inside a sequence binds too
			// loosely; it needs a group to keep its branches local.
			_, isAlt := c.(*Alternation)
			writeNode(b, c, isAlt)
		}
		if atom {
			b.WriteString(")")
		}
	case *Alternation:
		if atom {
			b.WriteString("(?:")
		}
		for i, c := range t.Children {
			if i > 0 {
				b.WriteString("|")
			}
			writeNode(b, c, false)
		}
		if atom {
			b.WriteString(")")
		}
	case *Group:
		if t.Capturing {
			b.WriteString("(")
		} else {
			b.WriteString("(?:")
		}
		writeNode(b, t.Child, false)
		b.WriteString(")")
	case *Quantifier:
		// A quantifier directly under another quantifier needs its own
		// group; a bare double suffix is rejected by every dialect.
		if atom {
			b.WriteString("(?:")
		}
		writeNode(b, t.Child, true)
		b.WriteString(quantSuffix(t.Min, t.Max))
		if !t.Greedy {
			b.WriteString("?")
		}
		if atom {
			b.WriteString(")")
		}
	case *Anchor:
		switch t.Kind {
		case AnchorBegin:
			b.WriteString("^")
		case AnchorEnd:
			b.WriteString("$")
		case AnchorWordBoundary:
			b.WriteString(`\b`)
		case AnchorNonWordBoundary:
			b.WriteString(`\B`)
		}
	}
}

func quantSuffix(min, max int) string {
	switch {
	case min == 0 && max == 1:
		return "?"
	case min == 0 && max == Unbounded:
		return "*"
	case min == 1 && max == Unbounded:
		return "+"
	case max == Unbounded:
		return fmt.Sprintf("{%d,}", min)
	case min == max:
		return fmt.Sprintf("{%d}", min)
	default:
		return fmt.Sprintf("{%d,%d}", min, max)
	}
}

func writeLiteral(b *strings.Builder, text string) {
	for _, r := range text {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteString(`\`)
		}
		b.WriteRune(r)
	}
}

func writeClass(b *strings.Builder, c *CharClass) {
	b.WriteString("[")
	if c.Negated {
		b.WriteString("^")
	}
	for _, r := range c.Ranges {
		writeClassChar(b, r.Lo)
		if r.Hi != r.Lo {
			if r.Hi > r.Lo+1 {
				b.WriteString("-")
			}
			writeClassChar(b, r.Hi)
		}
	}
	b.WriteString("]")
}

func writeClassChar(b *strings.Builder, r rune) {
	if strings.ContainsRune(`\^-]`, r) {
		b.WriteString(`\`)
	}
	b.WriteRune(r)
}
