package examples

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	set, err := New([]string{"abc", "def"}, []string{"xyz"})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, set.Positives)
	assert.Equal(t, []string{"xyz"}, set.Negatives)
}

func TestNewCopiesInput(t *testing.T) {
	positives := []string{"abc"}
	set, err := New(positives, nil)
	require.NoError(t, err)

	positives[0] = "changed"
	assert.Equal(t, "abc", set.Positives[0])
}

func TestNewRequiresPositives(t *testing.T) {
	_, err := New(nil, []string{"x"})
	assert.ErrorIs(t, err, ErrNoPositives)
}

func TestNewRejectsConflict(t *testing.T) {
	_, err := New([]string{"abc", "dup"}, []string{"dup"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestValidateIncremental(t *testing.T) {
	set := &Set{}
	assert.ErrorIs(t, set.Validate(), ErrNoPositives)

	set.Positives = append(set.Positives, "abc")
	assert.NoError(t, set.Validate())

	set.Negatives = append(set.Negatives, "abc")
	assert.ErrorIs(t, set.Validate(), ErrConflict)
}

func TestEmptyStringIsALegitimateExample(t *testing.T) {
	set, err := New([]string{""}, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, set.Positives)

	_, err = New([]string{""}, []string{""})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "positives.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\n\ndef\n"), 0644))

	lines, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "", "def"}, lines)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
