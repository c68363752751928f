package anneal

// Reason explains why a run ended.
type Reason string

const (
	ReasonPerfect        Reason = "perfect_solution"
	ReasonNoImprovement  Reason = "no_improvement"
	ReasonIterationLimit Reason = "iteration_limit"
	ReasonTimeout        Reason = "timeout"
	ReasonFailed         Reason = "failed"
)

// Status is the controller's state. A run moves Init -> Running -> one
// terminal state and never back.
type Status int

const (
	StatusInit Status = iota
	StatusRunning
	StatusConverged
	StatusTimedOut
	StatusIterationLimitReached
	StatusFailed
)

// String returns a human-readable string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusRunning:
		return "running"
	case StatusConverged:
		return "converged"
	case StatusTimedOut:
		return "timed_out"
	case StatusIterationLimitReached:
		return "iteration_limit_reached"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (r Reason) status() Status {
	switch r {
	case ReasonPerfect, ReasonNoImprovement:
		return StatusConverged
	case ReasonTimeout:
		return StatusTimedOut
	case ReasonIterationLimit:
		return StatusIterationLimitReached
	default:
		return StatusFailed
	}
}

// Result is what survives a run: the best pattern's text and metrics.
// Every field except ElapsedMs is fully determined by the example set,
// the configuration, and the seed.
type Result struct {
	BestPatternText   string  `json:"best_pattern_text"`
	Score             float64 `json:"score"`
	Complexity        int     `json:"complexity"`
	Iterations        int     `json:"iterations"`
	ElapsedMs         int64   `json:"elapsed_ms"`
	ConvergenceReason Reason  `json:"convergence_reason"`

	PositiveMatchCount  int      `json:"positive_match_count"`
	NegativeRejectCount int      `json:"negative_reject_count"`
	PerformanceWarnings []string `json:"performance_warnings,omitempty"`

	// Diagnostic carries the failure detail when ConvergenceReason is
	// ReasonFailed.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Search statistics.
	AcceptedMoves    int     `json:"accepted_moves"`
	RejectedMoves    int     `json:"rejected_moves"`
	FinalTemperature float64 `json:"final_temperature"`
}

// Status maps the convergence reason back onto the terminal state.
func (r *Result) Status() Status {
	return r.ConvergenceReason.status()
}
