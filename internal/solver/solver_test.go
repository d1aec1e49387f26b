package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver(d PointerDriver) *Solver {
	s := New(d)
	s.sleep = instantSleep
	s.exec.sleep = instantSleep
	return s
}

func TestSolveFirstAttemptSolved(t *testing.T) {
	// A first-attempt solve returns immediately without consuming
	// further attempt budget.
	cfg := DefaultConfig()
	cfg.RNGSeed = 7
	h := newFakeHandle(280, 40, 40, 0)
	h.markers[cfg.SuccessMarker] = true
	d := &fakeDriver{}

	res, err := newTestSolver(d).Solve(context.Background(), h, cfg)

	require.NoError(t, err)
	assert.Equal(t, StatusSolved, res.Status)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, OutcomeSolved, res.Attempts[0].Outcome)
	assert.Equal(t, int64(7), res.Attempts[0].Plan.Seed)

	downs, ups := d.balance()
	assert.Equal(t, downs, ups)
}

func TestSolveAllAttemptsFailed(t *testing.T) {
	// Three failed attempts exhaust the budget.
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3
	cfg.RNGSeed = 11
	h := newFakeHandle(280, 40, 40, 0)
	h.markers[cfg.FailureMarker] = true
	d := &fakeDriver{}

	res, err := newTestSolver(d).Solve(context.Background(), h, cfg)

	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, res.Status)
	require.Len(t, res.Attempts, 3)
	for i, rec := range res.Attempts {
		assert.Equal(t, i, rec.AttemptIndex)
		assert.Equal(t, OutcomeFailed, rec.Outcome)
	}
	// Escalation varies the seed per attempt, never the algorithm.
	assert.Equal(t, int64(11), res.Attempts[0].Plan.Seed)
	assert.Equal(t, int64(12), res.Attempts[1].Plan.Seed)
	assert.Equal(t, int64(13), res.Attempts[2].Plan.Seed)

	downs, ups := d.balance()
	assert.Equal(t, 3, downs)
	assert.Equal(t, downs, ups)
}

func TestSolveRetriesAfterFrameInstability(t *testing.T) {
	// Detachment at waypoint 5 of a 20-step plan aborts the attempt as
	// indeterminate, and the next attempt re-probes geometry.
	cfg := DefaultConfig()
	cfg.RNGSeed = 3
	h := newFakeHandle(280, 40, 40, 0)
	// IsAttached call order: attempt 1 probe, pre-flight, first in-flight
	// health check (detached), then attempt 2 stays attached throughout.
	h.attachScript = []bool{true, true, false, true}
	h.markers[cfg.SuccessMarker] = true
	d := &fakeDriver{}

	res, err := newTestSolver(d).Solve(context.Background(), h, cfg)

	require.NoError(t, err)
	assert.Equal(t, StatusSolved, res.Status)
	require.Len(t, res.Attempts, 2)

	first := res.Attempts[0]
	assert.Equal(t, OutcomeIndeterminate, first.Outcome)
	assert.True(t, first.FrameUnstable)
	assert.Equal(t, ErrFrameDetached.Error(), first.AbortReason)

	second := res.Attempts[1]
	assert.Equal(t, OutcomeSolved, second.Outcome)

	// One geometry probe per attempt, none reused across attempts.
	assert.Equal(t, 2, h.containerQueries)

	downs, ups := d.balance()
	assert.Equal(t, 2, downs)
	assert.Equal(t, downs, ups)
}

func TestSolveGeometryUnavailableConsumesAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 2
	h := newFakeHandle(280, 40, 40, 0)
	h.attachScript = []bool{false}
	d := &fakeDriver{}

	res, err := newTestSolver(d).Solve(context.Background(), h, cfg)

	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, res.Status)
	require.Len(t, res.Attempts, 2)
	for _, rec := range res.Attempts {
		assert.Equal(t, OutcomeAborted, rec.Outcome)
		assert.Contains(t, rec.AbortReason, ErrGeometryUnavailable.Error())
	}

	downs, ups := d.balance()
	assert.Zero(t, downs)
	assert.Zero(t, ups)
}

func TestSolveNeverExceedsBudget(t *testing.T) {
	for _, budget := range []int{1, 2, 5} {
		cfg := DefaultConfig()
		cfg.MaxAttempts = budget
		h := newFakeHandle(280, 40, 40, 0)
		h.markers[cfg.FailureMarker] = true

		res, err := newTestSolver(&fakeDriver{}).Solve(context.Background(), h, cfg)

		require.NoError(t, err)
		assert.Equal(t, StatusExhausted, res.Status)
		assert.Len(t, res.Attempts, budget)
	}
}

func TestSolveStopsWhenOuterContextExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 5
	h := newFakeHandle(280, 40, 40, 0)
	h.markers[cfg.FailureMarker] = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestSolver(&fakeDriver{}).Solve(ctx, h, cfg)

	require.NoError(t, err, "a spent budget is a status, not an error")
	assert.Equal(t, StatusExhausted, res.Status)
	assert.LessOrEqual(t, len(res.Attempts), 1)
}

func TestSolveProgrammerErrors(t *testing.T) {
	s := newTestSolver(&fakeDriver{})

	_, err := s.Solve(context.Background(), nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilHandle)

	h := newFakeHandle(280, 40, 40, 0)

	cfg := DefaultConfig()
	cfg.MaxAttempts = -1
	_, err = s.Solve(context.Background(), h, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MinStepDelay = cfg.MaxStepDelay
	_, err = s.Solve(context.Background(), h, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
