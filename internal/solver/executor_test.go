package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardPlan returns a 21-waypoint plan (20 movement steps) over the
// standard 280/40 geometry.
func standardPlan(t *testing.T, cfg Config) (PuzzleGeometry, MovementPlan) {
	t.Helper()
	g := planGeometry(280, 40, 0)
	target := ComputeTarget(g, cfg)
	plan := BuildPlan(g, target, 42, cfg)
	require.Len(t, plan.Waypoints, 21)
	return g, plan
}

func newTestExecutor(d PointerDriver) *Executor {
	e := NewExecutor(d)
	e.sleep = instantSleep
	return e
}

func TestExecutorCompletesAndBalancesPointer(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	g, plan := standardPlan(t, cfg)
	d := &fakeDriver{}

	outcome, err := newTestExecutor(d).Execute(context.Background(), h, g, plan, NewFrameMonitor(cfg))

	require.NoError(t, err)
	assert.Equal(t, ExecCompleted, outcome)
	downs, ups := d.balance()
	assert.Equal(t, 1, downs)
	assert.Equal(t, 1, ups)
	assert.Equal(t, len(plan.Waypoints), d.moves, "grip move plus one move per remaining waypoint")

	// The drag ends on the target's page coordinate.
	last := d.positions[len(d.positions)-1]
	assert.Equal(t, g.ContainerX+plan.Target+g.SliderWidth/2, last[0])
	assert.Equal(t, g.ContainerY+g.ContainerHeight/2, last[1])
}

func TestExecutorAbortsOnFrameInstability(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	h.attachScript = []bool{false} // first in-flight health check fails
	g, plan := standardPlan(t, cfg)
	d := &fakeDriver{}

	outcome, err := newTestExecutor(d).Execute(context.Background(), h, g, plan, NewFrameMonitor(cfg))

	require.NoError(t, err)
	assert.Equal(t, ExecAbortedFrameUnstable, outcome)

	// 21 waypoints -> health check every 5 waypoints; the abort lands at
	// waypoint 5 after 4 movement steps plus the grip move.
	assert.Equal(t, 5, d.moves)
	downs, ups := d.balance()
	assert.Equal(t, 1, downs)
	assert.Equal(t, 1, ups, "abort must still release the pointer")
}

func TestExecutorAbortsOnTimeout(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	g, plan := standardPlan(t, cfg)
	d := &fakeDriver{}

	e := NewExecutor(d)
	e.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.DeadlineExceeded
	}

	outcome, err := e.Execute(context.Background(), h, g, plan, NewFrameMonitor(cfg))

	require.NoError(t, err)
	assert.Equal(t, ExecAbortedTimeout, outcome)
	downs, ups := d.balance()
	assert.Equal(t, 1, downs)
	assert.Equal(t, 1, ups, "timeout must still release the pointer")
}

func TestExecutorDriverFailureStillReleases(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	g, plan := standardPlan(t, cfg)
	d := &fakeDriver{failMoveN: 3, moveErr: errors.New("target crashed")}

	outcome, err := newTestExecutor(d).Execute(context.Background(), h, g, plan, NewFrameMonitor(cfg))

	assert.Equal(t, ExecAbortedFrameUnstable, outcome)
	assert.Error(t, err)
	downs, ups := d.balance()
	assert.Equal(t, downs, ups)
}

func TestExecutorNoopPlanTouchesNothing(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 220)
	g, _ := Probe(context.Background(), h, cfg)
	plan := BuildPlan(g, 220, 1, cfg)
	require.True(t, plan.Noop())
	d := &fakeDriver{}

	outcome, err := newTestExecutor(d).Execute(context.Background(), h, g, plan, NewFrameMonitor(cfg))

	require.NoError(t, err)
	assert.Equal(t, ExecCompleted, outcome)
	downs, ups := d.balance()
	assert.Zero(t, downs)
	assert.Zero(t, ups)
	assert.Zero(t, d.moves)
}
