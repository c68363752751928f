package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxforge/rxforge/internal/anneal"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeBatchFile(t, `
defaults:
  max_iterations: 500
tasks:
  - name: digits
    positives: ["123", "456"]
    negatives: ["12a"]
  - name: words
    positives: ["cat", "dog"]
    seed: 9
`)
	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Tasks, 2)
	assert.Equal(t, "digits", f.Tasks[0].Name)
	assert.Equal(t, []string{"123", "456"}, f.Tasks[0].Positives)
	require.NotNil(t, f.Tasks[1].Seed)
	assert.Equal(t, int64(9), *f.Tasks[1].Seed)
	require.NotNil(t, f.Defaults)
	assert.Equal(t, 500, f.Defaults.MaxIterations)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no tasks", "tasks: []\n"},
		{"unnamed task", "tasks:\n  - positives: [\"a\"]\n"},
		{"duplicate names", "tasks:\n  - name: x\n    positives: [\"a\"]\n  - name: x\n    positives: [\"b\"]\n"},
		{"no positives", "tasks:\n  - name: x\n"},
		{"broken yaml", "tasks: [not closed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeBatchFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRunExecutesAllTasks(t *testing.T) {
	f := &File{Tasks: []Task{
		{Name: "digits", Positives: []string{"123", "456", "789"}, Negatives: []string{"12a"}},
		{Name: "letters", Positives: []string{"abc", "xyz"}},
		{Name: "conflict", Positives: []string{"x"}, Negatives: []string{"x"}},
	}}

	cfg := anneal.DefaultConfig()
	cfg.MaxIterations = 50
	results := Run(context.Background(), f, cfg, 2)
	require.Len(t, results, 3)

	assert.Equal(t, "digits", results[0].Name)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "[0-9]{3}", results[0].Result.BestPatternText)

	require.NoError(t, results[1].Err)
	assert.NotEmpty(t, results[1].Result.BestPatternText)

	// The conflicting task fails to start; the others are unaffected.
	assert.Error(t, results[2].Err)
	assert.NotEmpty(t, results[2].ErrMsg)
}

func TestRunTaskOverrides(t *testing.T) {
	seed := int64(77)
	f := &File{
		Defaults: func() *anneal.Config { c := anneal.DefaultConfig(); c.MaxIterations = 40; return &c }(),
		Tasks: []Task{
			{Name: "a", Positives: []string{"cat", "dog"}, Seed: &seed, Iterations: 30, Profile: "minimal"},
		},
	}

	cfg := taskConfig(f.Tasks[0], f, anneal.DefaultConfig())
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, 30, cfg.MaxIterations)
	assert.Equal(t, "minimal", string(cfg.Profile))
}

func TestRunDeterministicPerTask(t *testing.T) {
	f := &File{Tasks: []Task{
		{Name: "t", Positives: []string{"cat", "dog"}, Negatives: []string{"cow"}},
	}}
	cfg := anneal.DefaultConfig()
	cfg.TimeoutMs = 0
	cfg.MaxIterations = 200

	first := Run(context.Background(), f, cfg, 1)
	second := Run(context.Background(), f, cfg, 4)
	require.NoError(t, first[0].Err)
	require.NoError(t, second[0].Err)

	first[0].Result.ElapsedMs = 0
	second[0].Result.ElapsedMs = 0
	assert.Equal(t, first[0].Result, second[0].Result)
}
