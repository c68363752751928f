package examples

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// ErrNoPositives indicates an example set with an empty positive list.
// No search can be seeded from it.
var ErrNoPositives = errors.New("example set has no positive examples")

// ErrConflict indicates a string present in both the positive and the
// negative list.
var ErrConflict = errors.New("example appears in both positive and negative lists")

// Set holds the ordered positive and negative example strings for one
// run. It is immutable for the lifetime of the run; the strings arrive
// already decoded.
type Set struct {
	Positives []string
	Negatives []string
}

// New builds a Set and validates it. An empty positive list or a string
// present in both lists is an input error: no search is attempted.
func New(positives, negatives []string) (*Set, error) {
	s := &Set{
		Positives: append([]string(nil), positives...),
		Negatives: append([]string(nil), negatives...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the invariants New enforces. It exists separately so
// callers that build a Set incrementally (the REPL) can re-check before
// a run.
func (s *Set) Validate() error {
	if len(s.Positives) == 0 {
		return ErrNoPositives
	}
	seen := make(map[string]struct{}, len(s.Positives))
	for _, p := range s.Positives {
		seen[p] = struct{}{}
	}
	for _, n := range s.Negatives {
		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: %q", ErrConflict, n)
		}
	}
	return nil
}

// LoadFile reads one example per line from path. Blank lines are kept:
// an empty string is a legitimate example.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening examples file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading examples file %s: %w", path, err)
	}
	return lines, nil
}
