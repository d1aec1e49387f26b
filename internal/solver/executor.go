package solver

import (
	"context"
	"fmt"
	"time"
)

// Executor replays a MovementPlan against the pointer driver, consulting the
// frame monitor between chunks of waypoints.
//
// State machine: Idle -> PointerDown -> Moving -> PointerUp -> Done, with a
// transition to Aborted from Moving on frame instability or deadline expiry.
// Every pointer-down is paired with exactly one pointer-up on all exit
// paths, so an abort never leaves the simulated input device stuck.
type Executor struct {
	driver PointerDriver
	sleep  func(context.Context, time.Duration) error
}

func NewExecutor(driver PointerDriver) *Executor {
	return &Executor{driver: driver, sleep: sleepCtx}
}

// Execute replays the plan. The returned error is non-nil only for driver
// failures; the outcome is always meaningful.
func (e *Executor) Execute(ctx context.Context, h ChallengeHandle, g PuzzleGeometry, plan MovementPlan, monitor *FrameMonitor) (ExecutionOutcome, error) {
	// Nothing to move: no pointer events at all, pointer balance holds at 0/0.
	if plan.Noop() {
		return ExecCompleted, nil
	}

	waypoints := plan.Waypoints
	x, y := e.pagePoint(g, waypoints[0].Offset)

	if err := e.driver.MoveTo(ctx, x, y); err != nil {
		return ExecAbortedFrameUnstable, fmt.Errorf("move to grip point: %w", err)
	}
	if err := e.driver.PointerDown(ctx, x, y); err != nil {
		return ExecAbortedFrameUnstable, fmt.Errorf("pointer down: %w", err)
	}

	// The release must run even when ctx has already expired.
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = e.driver.PointerUp(cleanupCtx, x, y)
	}
	defer release()

	interval := checkInterval(len(waypoints))
	prevAt := waypoints[0].AtMs

	for i, wp := range waypoints[1:] {
		if err := e.sleep(ctx, time.Duration(wp.AtMs-prevAt)*time.Millisecond); err != nil {
			return ExecAbortedTimeout, nil
		}
		prevAt = wp.AtMs

		// Health checks are rationed: extra DOM traffic mid-drag is the
		// main cause of the surface tearing itself down.
		if (i+1)%interval == 0 {
			if !monitor.CheckHealth(ctx, h).Healthy() {
				return ExecAbortedFrameUnstable, nil
			}
		}

		x, y = e.pagePoint(g, wp.Offset)
		if err := e.driver.MoveTo(ctx, x, y); err != nil {
			return ExecAbortedFrameUnstable, fmt.Errorf("move to waypoint %d: %w", i+1, err)
		}
	}

	release()
	return ExecCompleted, nil
}

// pagePoint translates a slider offset to the page-global coordinates of
// the slider grip center.
func (e *Executor) pagePoint(g PuzzleGeometry, offset float64) (float64, float64) {
	x := g.ContainerX + offset + g.SliderWidth/2
	y := g.ContainerY + g.ContainerHeight/2
	return x, y
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
