package check

import (
	"strings"
	"testing"
	"time"

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

func TestRunValidPattern(t *testing.T) {
	set := mustSet(t, []string{"123", "456"}, []string{"12a", "1234"})

	for _, d := range []pattern.Dialect{pattern.DialectGo, pattern.DialectECMAScript, pattern.DialectDotNet} {
		rep, err := Run(`[0-9]{3}`, set, d)
		require.NoError(t, err, "dialect %s", d)
		assert.True(t, rep.Compiled)
		assert.True(t, rep.Valid, "dialect %s", d)
		assert.Empty(t, rep.Failures)
		assert.Empty(t, rep.FalseMatches)
	}
}

// Matching is whole-string: a pattern that merely finds a substring of
// a negative example must still count it as a false match.
func TestRunFullStringSemantics(t *testing.T) {
	set := mustSet(t, []string{"abc"}, []string{"xabcx"})

	rep, err := Run(`abc`, set, pattern.DialectGo)
	require.NoError(t, err)
	assert.True(t, rep.Valid)
}

func TestRunMisclassifications(t *testing.T) {
	set := mustSet(t, []string{"cat", "dog"}, []string{"cow"})

	rep, err := Run(`c[a-z]+`, set, pattern.DialectGo)
	require.NoError(t, err)
	assert.True(t, rep.Compiled)
	assert.False(t, rep.Valid)
	assert.Equal(t, []string{"dog"}, rep.Failures)
	assert.Equal(t, []string{"cow"}, rep.FalseMatches)
}

func TestRunCompileFailure(t *testing.T) {
	set := mustSet(t, []string{"abc"}, nil)

	rep, err := Run(`(unclosed`, set, pattern.DialectGo)
	require.NoError(t, err)
	assert.False(t, rep.Compiled)
	assert.NotEmpty(t, rep.CompileError)
	assert.False(t, rep.Valid)
	assert.Equal(t, set.Positives, rep.Failures)
}

// The backtracking engines must give up on a hostile input instead of
// running forever; the Go engine needs no deadline.
func TestRunReportsEngineTimeout(t *testing.T) {
	prev := matchTimeout
	matchTimeout = 50 * time.Millisecond
	defer func() { matchTimeout = prev }()

	hostile := strings.Repeat("a", 64) + "!"
	set := mustSet(t, []string{"ab"}, []string{hostile})

	for _, d := range []pattern.Dialect{pattern.DialectECMAScript, pattern.DialectDotNet} {
		rep, err := Run(`(a+)+b`, set, d)
		require.NoError(t, err, "dialect %s", d)
		assert.True(t, rep.Compiled, "dialect %s", d)
		assert.False(t, rep.Valid, "dialect %s", d)
		assert.Equal(t, []string{hostile}, rep.Timeouts, "dialect %s", d)
		assert.Empty(t, rep.Failures, "dialect %s", d)
		assert.Empty(t, rep.FalseMatches, "dialect %s", d)
		assert.NotEmpty(t, rep.Safety.Warnings, "dialect %s", d)
	}
}

func TestRunTimeoutOnPositiveCountsAsFailure(t *testing.T) {
	prev := matchTimeout
	matchTimeout = 50 * time.Millisecond
	defer func() { matchTimeout = prev }()

	hostile := strings.Repeat("a", 64) + "!"
	set := mustSet(t, []string{hostile}, nil)

	rep, err := Run(`(a+)+b`, set, pattern.DialectDotNet)
	require.NoError(t, err)
	assert.Equal(t, []string{hostile}, rep.Timeouts)
	assert.Equal(t, []string{hostile}, rep.Failures)
	assert.False(t, rep.Valid)
}

func TestAnalyzeRiskLevels(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		level RiskLevel
	}{
		{"plain literal", "abc", RiskLow},
		{"single alternation", "cat|dog", RiskMedium},
		{"nested quantifiers", "(a+)+b", RiskHigh},
		{"nested quantifiers with alternation", "(a+|b)+c|d", RiskCritical},
		{"many unbounded", "a*b+c*", RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Analyze(tt.text)
			assert.Equal(t, tt.level, s.RiskLevel, "score %d, warnings %v", s.RiskScore, s.Warnings)
		})
	}
}

func TestAnalyzeCounts(t *testing.T) {
	s := Analyze(`[a-z]+[0-9]*(x|y)`)
	assert.Equal(t, 1, s.AlternationCount)
	assert.Equal(t, 2, s.UnboundedCount)
	assert.Equal(t, 2, s.CharacterClassCount)
	assert.False(t, s.NestedQuantifiers)
}

func TestAnalyzeNestedQuantifierDetection(t *testing.T) {
	assert.True(t, Analyze(`(a+)+`).NestedQuantifiers)
	assert.True(t, Analyze(`(x*)*y`).NestedQuantifiers)
	assert.False(t, Analyze(`(abc)+`).NestedQuantifiers)
	assert.False(t, Analyze(`a+b+`).NestedQuantifiers)
}

func TestAnalyzeLongPatternWarning(t *testing.T) {
	long := make([]byte, 120)
	for i := range long {
		long[i] = 'a'
	}
	s := Analyze(string(long))
	assert.GreaterOrEqual(t, s.RiskScore, 1)
	assert.NotEmpty(t, s.Warnings)
}
