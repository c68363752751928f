// Package check validates a finished pattern against an example set and
// flags structural performance hazards. Unlike the search loop, it runs
// the target dialect's real engine, so it catches divergences between
// the internal matcher and the engine users will deploy against.
package check

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
)

// matchTimeout caps one match attempt in the regexp2 engines, which
// backtrack and can otherwise run without bound on hostile inputs. The
// RE2 engine behind the go dialect needs no cap. Variable so tests can
// shorten it.
var matchTimeout = 2 * time.Second

// RiskLevel buckets the structural risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Safety is the structural hazard analysis of a pattern's text.
type Safety struct {
	RiskLevel           RiskLevel `json:"risk_level"`
	RiskScore           int       `json:"risk_score"`
	Warnings            []string  `json:"warnings,omitempty"`
	NestedQuantifiers   bool      `json:"nested_quantifiers"`
	AlternationCount    int       `json:"alternation_count"`
	UnboundedCount      int       `json:"unbounded_quantifier_count"`
	CharacterClassCount int       `json:"character_class_count"`
	PatternLength       int       `json:"pattern_length"`
}

// Report is the outcome of checking one pattern against one example set.
type Report struct {
	Pattern      string `json:"pattern"`
	Dialect      string `json:"dialect"`
	Compiled     bool   `json:"compiled"`
	CompileError string `json:"compile_error,omitempty"`

	// Failures are positives the pattern missed; FalseMatches are
	// negatives it matched. Timeouts are examples the engine gave up on
	// before reaching a verdict. Valid means Compiled with all three
	// empty.
	Failures     []string `json:"positive_failures,omitempty"`
	FalseMatches []string `json:"negative_matches,omitempty"`
	Timeouts     []string `json:"timeouts,omitempty"`
	Valid        bool     `json:"valid"`

	Safety Safety `json:"safety"`
}

// matcher is a full-string predicate over one compiled pattern.
type matcher func(s string) (bool, error)

// Run checks text against the set under the given dialect. A compile
// failure is reported, not returned as an error. An example the engine
// times out on counts against validity: a positive that timed out was
// not shown to match, and a timeout on any input is itself a
// performance defect.
func Run(text string, set *examples.Set, dialect pattern.Dialect) (*Report, error) {
	rep := &Report{
		Pattern: text,
		Dialect: string(dialect),
		Safety:  Analyze(text),
	}

	m, err := compileFull(text, dialect)
	if err != nil {
		rep.CompileError = err.Error()
		rep.Failures = append([]string(nil), set.Positives...)
		return rep, nil
	}
	rep.Compiled = true

	for _, p := range set.Positives {
		ok, err := m(p)
		if err != nil {
			rep.Timeouts = append(rep.Timeouts, p)
			rep.Failures = append(rep.Failures, p)
			continue
		}
		if !ok {
			rep.Failures = append(rep.Failures, p)
		}
	}
	for _, n := range set.Negatives {
		ok, err := m(n)
		if err != nil {
			rep.Timeouts = append(rep.Timeouts, n)
			continue
		}
		if ok {
			rep.FalseMatches = append(rep.FalseMatches, n)
		}
	}

	if len(rep.Timeouts) > 0 {
		rep.Safety.Warnings = append(rep.Safety.Warnings,
			fmt.Sprintf("match timed out after %s on %d example(s); catastrophic backtracking in this engine", matchTimeout, len(rep.Timeouts)))
	}
	rep.Valid = len(rep.Failures) == 0 && len(rep.FalseMatches) == 0 && len(rep.Timeouts) == 0
	return rep, nil
}

// compileFull compiles text for full-string matching in the dialect's
// engine. The wrapper group keeps alternations from leaking past the
// anchors.
func compileFull(text string, dialect pattern.Dialect) (matcher, error) {
	switch dialect {
	case pattern.DialectGo:
		re, err := regexp.Compile(`\A(?:` + text + `)\z`)
		if err != nil {
			return nil, err
		}
		return func(s string) (bool, error) {
			return re.MatchString(s), nil
		}, nil
	case pattern.DialectECMAScript, pattern.DialectDotNet:
		opts := regexp2.None
		if dialect == pattern.DialectECMAScript {
			opts = regexp2.ECMAScript
		}
		re, err := regexp2.Compile(`\A(?:`+text+`)\z`, opts)
		if err != nil {
			return nil, err
		}
		re.MatchTimeout = matchTimeout
		return re.MatchString, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

var nestedQuantifierRe = regexp.MustCompile(`\([^)]*[*+][^)]*\)[*+]`)

// Analyze scores the pattern text for backtracking hazards. It works on
// the text, not a tree, so it applies to hand-written patterns too.
func Analyze(text string) Safety {
	s := Safety{
		AlternationCount:    strings.Count(text, "|"),
		UnboundedCount:      strings.Count(text, "*") + strings.Count(text, "+"),
		CharacterClassCount: strings.Count(text, "["),
		PatternLength:       len(text),
	}

	if nestedQuantifierRe.MatchString(text) {
		s.NestedQuantifiers = true
		s.Warnings = append(s.Warnings, "nested quantifiers detected; high risk of catastrophic backtracking")
		s.RiskScore += 5
	}
	if s.AlternationCount > 0 {
		s.Warnings = append(s.Warnings, "alternation present; backtracking possible on overlapping branches")
		s.RiskScore++
	}
	if s.CharacterClassCount > 3 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("many character classes (%d); may impact performance", s.CharacterClassCount))
		s.RiskScore++
	}
	if s.UnboundedCount > 2 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("multiple unbounded quantifiers (%d); potential performance issue", s.UnboundedCount))
		s.RiskScore += 2
	}
	if s.PatternLength > 100 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("very long pattern (%d chars); may be hard to understand", s.PatternLength))
		s.RiskScore++
	}

	switch {
	case s.RiskScore == 0:
		s.RiskLevel = RiskLow
	case s.RiskScore <= 2:
		s.RiskLevel = RiskMedium
	case s.RiskScore <= 5:
		s.RiskLevel = RiskHigh
	default:
		s.RiskLevel = RiskCritical
	}
	return s
}
