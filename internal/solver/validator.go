package solver

import "context"

// snapBackEpsilon is how close to zero the slider must sit to count as a
// reset by the challenge.
const snapBackEpsilon = 1.0

// Validate inspects post-movement state and classifies the outcome.
//
// Decision rule: an explicit success marker, or a re-probed offset within
// the success threshold of the target with no failure marker present, means
// solved. An explicit failure marker or a snap-back to zero means failed.
// Anything else is indeterminate, including a probe failure: the surface may
// have been removed precisely because the challenge succeeded and redirected.
func Validate(ctx context.Context, h ChallengeHandle, before PuzzleGeometry, target float64, cfg Config) Verdict {
	if ok, err := h.HasMarker(ctx, cfg.SuccessMarker); err == nil && ok {
		return VerdictSolved
	}

	failureSeen := false
	if ok, err := h.HasMarker(ctx, cfg.FailureMarker); err == nil && ok {
		failureSeen = true
	}

	after, err := Probe(ctx, h, cfg)
	if err != nil {
		// Best-effort re-probe: its failure is evidence of indeterminate,
		// not of failure.
		return VerdictIndeterminate
	}

	if !failureSeen && abs(after.SliderOffset-target) <= cfg.SuccessThresholdPx {
		return VerdictSolved
	}
	if failureSeen || (after.SliderOffset <= snapBackEpsilon && before.SliderOffset+snapBackEpsilon < target) {
		return VerdictFailed
	}
	return VerdictIndeterminate
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
