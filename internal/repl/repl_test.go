package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxforge/rxforge/internal/anneal"
)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	r, err := New(&Config{Run: anneal.DefaultConfig()})
	require.NoError(t, err)
	return r
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := anneal.DefaultConfig()
	cfg.MaxIterations = 0
	_, err := New(&Config{Run: cfg})
	assert.Error(t, err)
}

func TestExampleCommands(t *testing.T) {
	r := newTestREPL(t)

	require.NoError(t, r.cmdPos([]string{"abc"}))
	require.NoError(t, r.cmdPos([]string{"multi", "word", "example"}))
	require.NoError(t, r.cmdNeg([]string{"xyz"}))

	assert.Equal(t, []string{"abc", "multi word example"}, r.positives)
	assert.Equal(t, []string{"xyz"}, r.negatives)

	assert.Error(t, r.cmdPos(nil))
	assert.Error(t, r.cmdNeg(nil))

	require.NoError(t, r.cmdClear(nil))
	assert.Empty(t, r.positives)
	assert.Empty(t, r.negatives)
}

func TestProfileCommand(t *testing.T) {
	r := newTestREPL(t)

	require.NoError(t, r.cmdProfile([]string{"minimal"}))
	assert.Equal(t, "minimal", string(r.cfg.Profile))

	assert.Error(t, r.cmdProfile([]string{"speedy"}))
	assert.Equal(t, "minimal", string(r.cfg.Profile))

	// No argument just reports the current value.
	require.NoError(t, r.cmdProfile(nil))
}

func TestSeedCommand(t *testing.T) {
	r := newTestREPL(t)

	require.NoError(t, r.cmdSeed([]string{"1234"}))
	assert.Equal(t, int64(1234), r.cfg.Seed)

	assert.Error(t, r.cmdSeed([]string{"not-a-number"}))
	assert.Equal(t, int64(1234), r.cfg.Seed)
}

func TestSynthRequiresExamples(t *testing.T) {
	r := newTestREPL(t)
	assert.Error(t, r.cmdSynth(nil))
}

func TestSaveRequiresStoreAndResult(t *testing.T) {
	r := newTestREPL(t)
	assert.Error(t, r.cmdSave(nil))
}

func TestProcessInputDispatch(t *testing.T) {
	r := newTestREPL(t)

	require.NoError(t, r.processInput("pos hello"))
	assert.Equal(t, []string{"hello"}, r.positives)

	require.NoError(t, r.processInput("+ shorthand"))
	assert.Equal(t, []string{"hello", "shorthand"}, r.positives)

	// Unknown commands are reported, not errors.
	assert.NoError(t, r.processInput("frobnicate"))
}
