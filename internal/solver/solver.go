// Package solver defeats DataDome-style slider-puzzle interstitials.
//
// One Solve call drives up to MaxAttempts sequential attempts through the
// pipeline Probe -> ComputeTarget -> BuildPlan -> Execute -> Validate. Every
// attempt starts from a fresh geometry probe because the surface may have
// been rebuilt since the last one. Escalation between attempts widens jitter
// bounds and varies the RNG seed, never the algorithm.
//
// A Solver is instantiated per session and shares no state across sessions;
// independent sessions run as separate cooperative tasks.
package solver

import (
	"context"
	"log"
	"time"
)

// jitterEscalationStep is how much the jitter scale widens per failed
// attempt.
const jitterEscalationStep = 0.35

// Solver is the retry/escalation controller. It owns the attempt budget and
// the attempt records of one solving session.
type Solver struct {
	driver PointerDriver
	exec   *Executor
	sleep  func(context.Context, time.Duration) error
	now    func() time.Time
}

func New(driver PointerDriver) *Solver {
	return &Solver{
		driver: driver,
		exec:   NewExecutor(driver),
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// Solve runs the attempt loop until the challenge is defeated or the budget
// is exhausted. Exhaustion is an ordinary result, not an error; the only
// errors returned are programmer errors (nil handle, invalid config).
func (s *Solver) Solve(ctx context.Context, h ChallengeHandle, cfg Config) (SolveResult, error) {
	if h == nil {
		return SolveResult{}, ErrNilHandle
	}
	if s.driver == nil {
		return SolveResult{}, ErrNilDriver
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return SolveResult{}, err
	}

	seed := cfg.RNGSeed
	if seed == 0 {
		seed = s.now().UnixNano()
	}

	started := s.now()
	attempts := make([]AttemptRecord, 0, cfg.MaxAttempts)

	for i := 0; i < cfg.MaxAttempts; i++ {
		rec := s.runAttempt(ctx, h, cfg, i, seed+int64(i))
		attempts = append(attempts, rec)
		log.Printf("🧩 Slider attempt %d/%d finished: %s (%dms)", i+1, cfg.MaxAttempts, rec.Outcome, rec.DurationMs)

		if rec.Outcome == OutcomeSolved {
			return SolveResult{
				Status:          StatusSolved,
				Attempts:        attempts,
				TotalDurationMs: s.now().Sub(started).Milliseconds(),
			}, nil
		}
		if ctx.Err() != nil {
			// Outer budget spent; stop consuming attempts.
			break
		}
	}

	return SolveResult{
		Status:          StatusExhausted,
		Attempts:        attempts,
		TotalDurationMs: s.now().Sub(started).Milliseconds(),
	}, nil
}

// runAttempt drives one full pipeline pass. All per-attempt errors are
// converted into the sealed record; nothing escapes.
func (s *Solver) runAttempt(ctx context.Context, h ChallengeHandle, cfg Config, index int, seed int64) AttemptRecord {
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.AttemptTimeout)
	defer cancel()

	started := s.now()
	rec := AttemptRecord{AttemptIndex: index}
	seal := func() AttemptRecord {
		rec.DurationMs = s.now().Sub(started).Milliseconds()
		return rec
	}

	geometry, err := Probe(attemptCtx, h, cfg)
	if err != nil {
		rec.Outcome = OutcomeAborted
		rec.AbortReason = err.Error()
		return seal()
	}
	rec.Geometry = geometry

	target := ComputeTarget(geometry, cfg)
	jitterScale := 1 + jitterEscalationStep*float64(index)
	plan := buildPlan(geometry, target, seed, jitterScale, cfg)
	rec.Plan = plan

	monitor := NewFrameMonitor(cfg)
	if !monitor.EnsureStable(attemptCtx, h, plan) {
		rec.Outcome = OutcomeIndeterminate
		rec.FrameUnstable = true
		rec.AbortReason = ErrFrameDetached.Error()
		return seal()
	}

	outcome, execErr := s.exec.Execute(attemptCtx, h, geometry, plan, monitor)
	switch outcome {
	case ExecAbortedFrameUnstable:
		rec.Outcome = OutcomeIndeterminate
		rec.FrameUnstable = true
		if execErr != nil {
			rec.AbortReason = execErr.Error()
		} else {
			rec.AbortReason = ErrFrameDetached.Error()
		}
		return seal()
	case ExecAbortedTimeout:
		rec.Outcome = OutcomeIndeterminate
		rec.AbortReason = ErrMovementTimeout.Error()
		return seal()
	}

	// Give the challenge time to animate, verify server-side, and redirect
	// before judging the result.
	_ = s.sleep(attemptCtx, cfg.SettleDelay)

	switch Validate(attemptCtx, h, geometry, target, cfg) {
	case VerdictSolved:
		rec.Outcome = OutcomeSolved
	case VerdictFailed:
		rec.Outcome = OutcomeFailed
	default:
		rec.Outcome = OutcomeIndeterminate
		rec.AbortReason = ErrValidationIndeterminate.Error()
	}
	rec.FrameUnstable = rec.FrameUnstable || monitor.Detached()
	return seal()
}
