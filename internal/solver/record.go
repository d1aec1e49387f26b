package solver

// Outcome classifies one finished attempt.
type Outcome int

const (
	OutcomeSolved Outcome = iota
	OutcomeFailed
	OutcomeIndeterminate
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeFailed:
		return "failed"
	case OutcomeIndeterminate:
		return "indeterminate"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Verdict is the validator's classification of post-movement state.
type Verdict int

const (
	VerdictSolved Verdict = iota
	VerdictFailed
	VerdictIndeterminate
)

func (v Verdict) String() string {
	switch v {
	case VerdictSolved:
		return "solved"
	case VerdictFailed:
		return "failed"
	default:
		return "indeterminate"
	}
}

// ExecutionOutcome is how a movement replay ended.
type ExecutionOutcome int

const (
	ExecCompleted ExecutionOutcome = iota
	ExecAbortedFrameUnstable
	ExecAbortedTimeout
)

func (e ExecutionOutcome) String() string {
	switch e {
	case ExecCompleted:
		return "completed"
	case ExecAbortedFrameUnstable:
		return "aborted_frame_unstable"
	case ExecAbortedTimeout:
		return "aborted_timeout"
	default:
		return "unknown"
	}
}

// Status is the terminal result of a whole solving session.
type Status int

const (
	StatusSolved Status = iota
	StatusExhausted
)

func (s Status) String() string {
	if s == StatusSolved {
		return "solved"
	}
	return "exhausted"
}

// AttemptRecord is the sealed diagnostic record of one attempt. Created when
// the attempt starts, sealed when it ends, never mutated afterwards.
type AttemptRecord struct {
	AttemptIndex  int            `json:"attempt_index"`
	Geometry      PuzzleGeometry `json:"geometry"`
	Plan          MovementPlan   `json:"plan"`
	Outcome       Outcome        `json:"outcome"`
	AbortReason   string         `json:"abort_reason,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	FrameUnstable bool           `json:"frame_instability_detected"`
}

// SolveResult is the terminal value returned to the caller: the status plus
// the full attempt history for offline analysis. Exhaustion is an expected,
// ordinary outcome of an adversarial system, so it is a status, not an error.
type SolveResult struct {
	Status          Status          `json:"status"`
	Attempts        []AttemptRecord `json:"attempts"`
	TotalDurationMs int64           `json:"total_duration_ms"`
}
