package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/pattern"
)

func mustSet(t *testing.T, positives, negatives []string) *examples.Set {
	t.Helper()
	set, err := examples.New(positives, negatives)
	require.NoError(t, err)
	return set
}

func digitQuant(min, max int) pattern.Node {
	return &pattern.Quantifier{
		Child:  &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: '0', Hi: '9'}}},
		Min:    min,
		Max:    max,
		Greedy: true,
	}
}

func TestProfileWeights(t *testing.T) {
	for _, p := range []Profile{ProfileMinimal, ProfileReadable, ProfileBalanced} {
		w := p.Weights()
		sum := w.Correctness + w.Minimality + w.Readability + w.Performance
		assert.InDelta(t, 1.0, sum, 1e-9, "profile %s", p)
		assert.True(t, p.IsValid())
	}
	assert.False(t, Profile("speedy").IsValid())

	minimal := ProfileMinimal.Weights()
	readable := ProfileReadable.Weights()
	assert.Greater(t, minimal.Minimality, readable.Minimality)
	assert.Greater(t, readable.Readability, minimal.Readability)
}

func TestWeightsNormalized(t *testing.T) {
	w := Weights{Correctness: 2, Minimality: 1, Readability: 1, Performance: 0}.normalized()
	assert.InDelta(t, 0.5, w.Correctness, 1e-9)
	assert.InDelta(t, 0.25, w.Minimality, 1e-9)
	assert.InDelta(t, 0.0, w.Performance, 1e-9)

	// Degenerate weights fall back to the balanced preset.
	zero := Weights{}.normalized()
	assert.InDelta(t, 0.5, zero.Correctness, 1e-9)
}

func TestScorePerfectCandidate(t *testing.T) {
	set := mustSet(t, []string{"123", "456"}, []string{"12a", "abc"})
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	b := ev.Score(digitQuant(3, 3))
	assert.False(t, b.Invalid)
	assert.Equal(t, 2, b.PositiveMatches)
	assert.Equal(t, 2, b.NegativeRejects)
	assert.Equal(t, 0, b.TimeoutFaults)
	assert.InDelta(t, 1.0, b.Correctness, 1e-9)
	assert.True(t, b.Perfect(set))
	assert.Greater(t, b.Total, 0.0)
	assert.Less(t, b.Total, 1.0)
}

func TestScoreImperfectCandidate(t *testing.T) {
	set := mustSet(t, []string{"123", "abc"}, []string{"zz"})
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	b := ev.Score(digitQuant(3, 3))
	assert.Equal(t, 1, b.PositiveMatches)
	assert.Equal(t, 1, b.NegativeRejects)
	assert.False(t, b.Perfect(set))
	assert.Less(t, b.Correctness, 1.0)
}

func TestScorePositiveWeightDominates(t *testing.T) {
	set := mustSet(t, []string{"123"}, []string{"abc"})
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	// Matches the positive but also the negative.
	matchesAll := &pattern.Quantifier{
		Child:  &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: '0', Hi: 'z'}}},
		Min:    0,
		Max:    pattern.Unbounded,
		Greedy: true,
	}
	bAll := ev.Score(matchesAll)
	assert.Equal(t, 1, bAll.PositiveMatches)
	assert.Equal(t, 0, bAll.NegativeRejects)

	// Rejects the negative but misses the positive too.
	bNone := ev.Score(&pattern.Literal{Text: "zzz"})
	assert.Equal(t, 0, bNone.PositiveMatches)
	assert.Equal(t, 1, bNone.NegativeRejects)

	// Matching the positive is worth far more than rejecting the
	// negative, and missing every positive is additionally crushed.
	assert.Greater(t, bAll.Correctness, bNone.Correctness)
}

func TestScoreZeroPositivesCrushed(t *testing.T) {
	set := mustSet(t, []string{"aaa"}, []string{"bbb", "ccc"})
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	b := ev.Score(&pattern.Literal{Text: "zzz"})
	assert.Equal(t, 0, b.PositiveMatches)
	assert.Equal(t, 2, b.NegativeRejects)
	// 0.8*0 + 0.2*1 = 0.2, then *0.1.
	assert.InDelta(t, 0.02, b.Correctness, 1e-9)
}

func TestScoreInvalidPattern(t *testing.T) {
	set := mustSet(t, []string{"abc"}, nil)
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	// An empty class cannot serialize to compilable text.
	b := ev.Score(&pattern.CharClass{})
	assert.True(t, b.Invalid)
	assert.NotEmpty(t, b.CompileErr)
	assert.Zero(t, b.Total)
	assert.False(t, b.Perfect(set))
}

func TestMinimalityPrefersSimpler(t *testing.T) {
	set := mustSet(t, []string{"123"}, nil)
	ev := NewEvaluator(set, pattern.DialectGo, Config{})

	simple := ev.Score(&pattern.Literal{Text: "123"})
	baroque := ev.Score(&pattern.Group{Child: &pattern.Group{Child: &pattern.Sequence{Children: []pattern.Node{
		digitQuant(1, 1), digitQuant(1, 1), digitQuant(1, 1),
	}}}})
	assert.Greater(t, simple.Minimality, baroque.Minimality)
}

func TestReadabilityPenalties(t *testing.T) {
	flat := readability(&pattern.Literal{Text: "abc"}, "abc")
	assert.InDelta(t, 1.0, flat, 1e-9)

	deep := &pattern.Group{Child: &pattern.Group{Child: &pattern.Group{Child: &pattern.Group{Child: &pattern.Literal{Text: "a"}}}}}
	assert.Less(t, readability(deep, "(?:(?:(?:(?:a))))"), 1.0)

	longText := make([]byte, 120)
	for i := range longText {
		longText[i] = 'a'
	}
	assert.Less(t, readability(&pattern.Literal{Text: string(longText)}, string(longText)), 1.0)

	assert.Less(t, readability(&pattern.Literal{Text: "x"}, "a{1}b{2}c{3}"), 1.0)
	assert.Less(t, readability(&pattern.Literal{Text: "x"}, "a|b|c|d|e"), 1.0)
}

func TestPerformanceZeroedByTimeout(t *testing.T) {
	set := mustSet(t, []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, nil)
	ev := NewEvaluator(set, pattern.DialectGo, Config{MatchBudget: 200})

	inner := &pattern.Quantifier{Child: &pattern.Literal{Text: "a"}, Min: 1, Max: pattern.Unbounded, Greedy: true}
	outer := &pattern.Quantifier{Child: &pattern.Group{Child: inner}, Min: 1, Max: pattern.Unbounded, Greedy: true}
	hazard := &pattern.Sequence{Children: []pattern.Node{outer, &pattern.Literal{Text: "b"}}}

	b := ev.Score(hazard)
	assert.Greater(t, b.TimeoutFaults, 0)
	assert.Zero(t, b.Performance)
	assert.False(t, b.Perfect(set))
}

func TestScoreDeterministic(t *testing.T) {
	set := mustSet(t, []string{"ab1", "cd2"}, []string{"xyz"})
	ev := NewEvaluator(set, pattern.DialectGo, Config{Profile: ProfileMinimal})

	tree := &pattern.Sequence{Children: []pattern.Node{
		&pattern.Quantifier{Child: &pattern.CharClass{Ranges: []pattern.CharRange{{Lo: 'a', Hi: 'z'}}}, Min: 2, Max: 2, Greedy: true},
		&pattern.CharClass{Ranges: []pattern.CharRange{{Lo: '0', Hi: '9'}}},
	}}
	first := ev.Score(tree)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ev.Score(tree))
	}
}

func TestEvaluatorDefaults(t *testing.T) {
	set := mustSet(t, []string{"a"}, nil)
	ev := NewEvaluator(set, pattern.DialectGo, Config{PositiveWeight: 5, MatchBudget: -1})
	assert.Equal(t, DefaultPositiveWeight, ev.cfg.PositiveWeight)
	assert.Equal(t, DefaultMatchBudget, ev.cfg.MatchBudget)
	assert.Equal(t, ProfileBalanced, ev.cfg.Profile)
}

func TestWeightOverrides(t *testing.T) {
	set := mustSet(t, []string{"123"}, nil)
	all := Weights{Correctness: 1}
	ev := NewEvaluator(set, pattern.DialectGo, Config{Overrides: &all})

	b := ev.Score(&pattern.Literal{Text: "123"})
	// With all weight on correctness, a fully correct candidate totals 1.
	assert.InDelta(t, 1.0, b.Total, 1e-9)
}
