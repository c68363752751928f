// Package analyze builds the initial pattern tree for a run. The seed is
// deliberately conservative: it must match every positive example, even
// when that makes it verbose. Tightening it up is the optimizer's job.
package analyze

import (
	"unicode"

	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
)

// Seed derives a guaranteed-correct starting pattern from the example
// set: shared literal prefix and suffix, a profiled body for the varying
// middle, and an alternation of escaped literals when the positives
// share no usable structure. Only an empty positive list is an error.
func Seed(set *examples.Set) (pattern.Node, error) {
	if len(set.Positives) == 0 {
		return nil, examples.ErrNoPositives
	}

	runes := make([][]rune, len(set.Positives))
	for i, p := range set.Positives {
		runes[i] = []rune(p)
	}

	prefix := commonPrefix(runes)
	suffix := commonSuffix(runes, len(prefix))

	middles := make([][]rune, len(runes))
	for i, r := range runes {
		middles[i] = r[len(prefix) : len(r)-len(suffix)]
	}

	if len(prefix) == 0 && len(suffix) == 0 && !homogeneous(middles) {
		return literalAlternation(set.Positives), nil
	}

	var parts []pattern.Node
	if len(prefix) > 0 {
		parts = append(parts, &pattern.Literal{Text: string(prefix)})
	}
	if body := profileBody(middles); body != nil {
		parts = append(parts, body)
	}
	if len(suffix) > 0 {
		parts = append(parts, &pattern.Literal{Text: string(suffix)})
	}

	switch len(parts) {
	case 0:
		// Every positive is the empty string.
		return &pattern.Literal{Text: ""}, nil
	case 1:
		return parts[0], nil
	default:
		return &pattern.Sequence{Children: parts}, nil
	}
}

// profileBody collapses the varying middles of the positives into
// character classes and quantifiers. Returns nil when every middle is
// empty.
func profileBody(middles [][]rune) pattern.Node {
	min, max := len(middles[0]), len(middles[0])
	for _, m := range middles {
		if len(m) < min {
			min = len(m)
		}
		if len(m) > max {
			max = len(m)
		}
	}
	if max == 0 {
		return nil
	}

	if min == max {
		return fixedLengthBody(middles, max)
	}

	chars := make(map[rune]struct{})
	for _, m := range middles {
		for _, r := range m {
			chars[r] = struct{}{}
		}
	}
	class := classFor(chars)
	q, err := pattern.NewQuantifier(class, min, max, true)
	if err != nil {
		return class
	}
	return q
}

// fixedLengthBody profiles each position independently and merges runs
// of identical classes into counted quantifiers, so "123"/"456"/"789"
// becomes [0-9]{3} rather than [0-9][0-9][0-9].
func fixedLengthBody(middles [][]rune, length int) pattern.Node {
	classes := make([]*pattern.CharClass, length)
	keys := make([]string, length)
	for pos := 0; pos < length; pos++ {
		chars := make(map[rune]struct{})
		for _, m := range middles {
			chars[m[pos]] = struct{}{}
		}
		classes[pos] = classFor(chars)
		keys[pos] = pattern.Serialize(classes[pos])
	}

	var parts []pattern.Node
	for pos := 0; pos < length; {
		run := 1
		for pos+run < length && keys[pos+run] == keys[pos] {
			run++
		}
		if run == 1 {
			parts = append(parts, classes[pos])
		} else {
			q, err := pattern.NewQuantifier(classes[pos], run, run, true)
			if err != nil {
				return literalFallback(middles)
			}
			parts = append(parts, q)
		}
		pos += run
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return &pattern.Sequence{Children: parts}
}

func literalFallback(middles [][]rune) pattern.Node {
	texts := make([]string, len(middles))
	for i, m := range middles {
		texts[i] = string(m)
	}
	return literalAlternation(texts)
}

// literalAlternation is the always-correct fallback: one escaped literal
// branch per distinct positive.
func literalAlternation(positives []string) pattern.Node {
	seen := make(map[string]struct{}, len(positives))
	var branches []pattern.Node
	for _, p := range positives {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		branches = append(branches, &pattern.Literal{Text: p})
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return &pattern.Alternation{Children: branches}
}

// classFor returns the smallest conventional class covering every
// observed character, widening digit -> letter-case -> alphanumeric and
// falling back to an explicit enumeration for anything else.
func classFor(chars map[rune]struct{}) *pattern.CharClass {
	allDigit, allLower, allUpper, allAlpha, allAlnum := true, true, true, true, true
	for r := range chars {
		d := r >= '0' && r <= '9'
		lo := r >= 'a' && r <= 'z'
		up := r >= 'A' && r <= 'Z'
		if !d {
			allDigit = false
		}
		if !lo {
			allLower = false
		}
		if !up {
			allUpper = false
		}
		if !lo && !up {
			allAlpha = false
		}
		if !d && !lo && !up {
			allAlnum = false
		}
	}
	switch {
	case allDigit:
		return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: '0', Hi: '9'}}}
	case allLower:
		return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: 'a', Hi: 'z'}}}
	case allUpper:
		return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: 'A', Hi: 'Z'}}}
	case allAlpha:
		return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}}}
	case allAlnum:
		return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}}}
	default:
		ranges := make([]pattern.CharRange, 0, len(chars))
		for r := range chars {
			ranges = append(ranges, pattern.CharRange{Lo: r, Hi: r})
		}
		cc, err := pattern.NewCharClass(false, ranges...)
		if err != nil {
			// Unreachable: chars is never empty here.
			return &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: 0, Hi: unicode.MaxRune}}}
		}
		return cc
	}
}

// homogeneous reports whether the middles draw from a narrow enough
// character mix for class profiling to produce something tighter than a
// wildcard. Four or more categories means no common structure.
func homogeneous(middles [][]rune) bool {
	cats := make(map[string]struct{})
	for _, m := range middles {
		for _, r := range m {
			cats[category(r)] = struct{}{}
		}
	}
	return len(cats) < 4
}

func category(r rune) string {
	switch {
	case r >= '0' && r <= '9':
		return "digit"
	case r >= 'a' && r <= 'z':
		return "lower"
	case r >= 'A' && r <= 'Z':
		return "upper"
	case unicode.IsSpace(r):
		return "space"
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return "punct"
	default:
		return "other"
	}
}

// commonPrefix returns the longest rune prefix shared by all strings.
func commonPrefix(runes [][]rune) []rune {
	prefix := runes[0]
	for _, r := range runes[1:] {
		n := 0
		for n < len(prefix) && n < len(r) && prefix[n] == r[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// commonSuffix returns the longest shared suffix that does not overlap
// the already-claimed prefix of any string.
func commonSuffix(runes [][]rune, prefixLen int) []rune {
	limit := len(runes[0]) - prefixLen
	for _, r := range runes {
		if l := len(r) - prefixLen; l < limit {
			limit = l
		}
	}
	if limit <= 0 {
		return nil
	}
	first := runes[0]
	n := 0
	for n < limit {
		c := first[len(first)-1-n]
		ok := true
		for _, r := range runes[1:] {
			if r[len(r)-1-n] != c {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		n++
	}
	return first[len(first)-n:]
}
