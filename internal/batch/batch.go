// Package batch runs many synthesis tasks from one YAML file with
// bounded parallelism. Tasks are independent; each owns its seed, so a
// batch is as reproducible as its individual runs.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
	"github.com/rxforge/rxforge/internal/score"
)

// Task is one named synthesis problem in a batch file. Unset config
// fields inherit the batch defaults.
type Task struct {
	Name      string   `yaml:"name"`
	Positives []string `yaml:"positives"`
	Negatives []string `yaml:"negatives,omitempty"`

	Profile    string `yaml:"profile,omitempty"`
	Seed       *int64 `yaml:"seed,omitempty"`
	Iterations int    `yaml:"iterations,omitempty"`
}

// File is the parsed batch file: shared defaults plus tasks.
type File struct {
	Defaults *anneal.Config `yaml:"defaults,omitempty"`
	Tasks    []Task         `yaml:"tasks"`
}

// Load parses a batch file and rejects structural problems early, so a
// long batch cannot fail halfway through on a typo.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(f.Tasks) == 0 {
		return nil, fmt.Errorf("batch file has no tasks")
	}
	seen := make(map[string]struct{}, len(f.Tasks))
	for i, t := range f.Tasks {
		if t.Name == "" {
			return nil, fmt.Errorf("task %d has no name", i)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if len(t.Positives) == 0 {
			return nil, fmt.Errorf("task %q has no positive examples", t.Name)
		}
	}
	return &f, nil
}

// TaskResult pairs a task with its run outcome. Err is set when the run
// could not start (bad config or example set); a run that merely failed
// to converge still carries a Result.
type TaskResult struct {
	Name   string         `json:"name"`
	Result *anneal.Result `json:"result,omitempty"`
	Err    error          `json:"-"`
	ErrMsg string         `json:"error,omitempty"`
}

// Run executes every task with at most parallelism concurrent runs
// (0 means GOMAXPROCS). Results come back in task order.
func Run(ctx context.Context, f *File, base anneal.Config, parallelism int) []TaskResult {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	sem := semaphore.NewWeighted(int64(parallelism))

	results := make([]TaskResult, len(f.Tasks))
	var wg sync.WaitGroup
	for i, task := range f.Tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = TaskResult{Name: task.Name, Err: err, ErrMsg: err.Error()}
			continue
		}
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = runTask(ctx, task, taskConfig(task, f, base))
		}(i, task)
	}
	wg.Wait()
	return results
}

func taskConfig(task Task, f *File, base anneal.Config) anneal.Config {
	cfg := base
	if f.Defaults != nil {
		cfg = *f.Defaults
	}
	if task.Profile != "" {
		cfg.Profile = score.Profile(task.Profile)
	}
	if task.Seed != nil {
		cfg.Seed = *task.Seed
	}
	if task.Iterations > 0 {
		cfg.MaxIterations = task.Iterations
	}
	return cfg
}

func runTask(ctx context.Context, task Task, cfg anneal.Config) TaskResult {
	set, err := examples.New(task.Positives, task.Negatives)
	if err != nil {
		return TaskResult{Name: task.Name, Err: err, ErrMsg: err.Error()}
	}
	ctrl, err := anneal.New(set, cfg)
	if err != nil {
		return TaskResult{Name: task.Name, Err: err, ErrMsg: err.Error()}
	}
	result, err := ctrl.Run(ctx)
	if err != nil {
		return TaskResult{Name: task.Name, Err: err, ErrMsg: err.Error()}
	}
	return TaskResult{Name: task.Name, Result: result}
}
