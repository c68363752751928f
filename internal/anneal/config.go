package anneal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rxforge/rxforge/internal/pattern"
	"github.com/rxforge/rxforge/internal/score"
)

// Schedule names a cooling schedule.
type Schedule string

const (
	ScheduleLinear      Schedule = "linear"
	ScheduleExponential Schedule = "exponential"
	ScheduleLogarithmic Schedule = "logarithmic"
	ScheduleAdaptive    Schedule = "adaptive"
)

// IsValid checks if the schedule value is supported.
func (s Schedule) IsValid() bool {
	switch s {
	case ScheduleLinear, ScheduleExponential, ScheduleLogarithmic, ScheduleAdaptive:
		return true
	}
	return false
}

// Config holds everything one run needs. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// MaxIterations caps the optimization loop.
	MaxIterations int `yaml:"max_iterations"`

	// MaxComplexity bounds candidate trees; proposals above it are
	// discarded before evaluation.
	MaxComplexity int `yaml:"max_complexity"`

	// TimeoutMs is the wall-clock budget for the whole run, checked at
	// loop boundaries only. 0 disables it.
	TimeoutMs int `yaml:"timeout_ms"`

	// Seed initializes the run's single pseudo-random stream. The same
	// examples, config, and seed replay the same run.
	Seed int64 `yaml:"seed"`

	// Profile selects the scoring weights; Weights overrides them
	// entirely when set.
	Profile score.Profile  `yaml:"profile"`
	Weights *score.Weights `yaml:"weights,omitempty"`

	// PositiveWeight is the correctness share given to matching
	// positives over rejecting negatives (0 means default).
	PositiveWeight float64 `yaml:"positive_weight,omitempty"`

	// CoolingSchedule picks the temperature curve.
	CoolingSchedule Schedule `yaml:"cooling_schedule"`

	// InitialTemperature and FinalTemperature bound the cooling curve.
	InitialTemperature float64 `yaml:"initial_temperature"`
	FinalTemperature   float64 `yaml:"final_temperature"`

	// StagnationLimit ends the run after this many iterations without a
	// new best.
	StagnationLimit int `yaml:"stagnation_limit"`

	// MatchBudget is the step ceiling per match attempt.
	MatchBudget int `yaml:"match_budget"`

	// MaxDepth caps tree nesting. 0 disables the cap.
	MaxDepth int `yaml:"max_depth"`

	// Dialect is the regex grammar candidates must compile under.
	Dialect pattern.Dialect `yaml:"dialect"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:      1000,
		MaxComplexity:      50,
		TimeoutMs:          10000,
		Seed:               1,
		Profile:            score.ProfileBalanced,
		CoolingSchedule:    ScheduleAdaptive,
		InitialTemperature: 10.0,
		FinalTemperature:   0.01,
		StagnationLimit:    150,
		MatchBudget:        score.DefaultMatchBudget,
		MaxDepth:           12,
		Dialect:            pattern.DialectGo,
	}
}

// Validate checks the configuration for values no run could honor.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive (got %d)", c.MaxIterations)
	}
	if c.MaxComplexity <= 0 {
		return fmt.Errorf("max_complexity must be positive (got %d)", c.MaxComplexity)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms cannot be negative (got %d)", c.TimeoutMs)
	}
	if !c.Profile.IsValid() {
		return fmt.Errorf("invalid scoring profile: %s", c.Profile)
	}
	if !c.CoolingSchedule.IsValid() {
		return fmt.Errorf("invalid cooling schedule: %s", c.CoolingSchedule)
	}
	if c.InitialTemperature <= 0 {
		return fmt.Errorf("initial_temperature must be positive (got %g)", c.InitialTemperature)
	}
	if c.FinalTemperature <= 0 || c.FinalTemperature >= c.InitialTemperature {
		return fmt.Errorf("final_temperature must be in (0, initial_temperature) (got %g)", c.FinalTemperature)
	}
	if c.StagnationLimit <= 0 {
		return fmt.Errorf("stagnation_limit must be positive (got %d)", c.StagnationLimit)
	}
	if c.MatchBudget <= 0 {
		return fmt.Errorf("match_budget must be positive (got %d)", c.MatchBudget)
	}
	if !c.Dialect.IsValid() {
		return fmt.Errorf("invalid dialect: %s", c.Dialect)
	}
	return nil
}

// Timeout returns the wall-clock budget as a duration; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// LoadConfig reads run defaults from a YAML file, starting from
// DefaultConfig so partial files work.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}
