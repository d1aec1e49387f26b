package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planGeometry(containerW, sliderW, offset float64) PuzzleGeometry {
	return PuzzleGeometry{
		ContainerX:      100,
		ContainerY:      200,
		ContainerWidth:  containerW,
		ContainerHeight: 40,
		SliderWidth:     sliderW,
		SliderOffset:    offset,
	}
}

func TestBuildPlanEndpoints(t *testing.T) {
	g := planGeometry(300, 40, 0)
	cfg := DefaultConfig()
	target := ComputeTarget(g, cfg)

	plan := BuildPlan(g, target, 42, cfg)

	require.NotEmpty(t, plan.Waypoints)
	assert.Equal(t, g.SliderOffset, plan.Waypoints[0].Offset, "plan starts at the current slider offset")
	assert.Equal(t, target, plan.Waypoints[len(plan.Waypoints)-1].Offset, "plan ends exactly on target")
	assert.InDelta(t, target, plan.Waypoints[len(plan.Waypoints)-1].Offset, cfg.SuccessThresholdPx)
}

func TestBuildPlanMonotonicTime(t *testing.T) {
	g := planGeometry(300, 40, 0)
	cfg := DefaultConfig()
	target := ComputeTarget(g, cfg)

	for seed := int64(1); seed <= 25; seed++ {
		plan := BuildPlan(g, target, seed, cfg)
		for i := 1; i < len(plan.Waypoints); i++ {
			assert.GreaterOrEqual(t, plan.Waypoints[i].AtMs, plan.Waypoints[i-1].AtMs,
				"seed %d waypoint %d timestamp regressed", seed, i)
		}
	}
}

func TestBuildPlanDeterministicPerSeed(t *testing.T) {
	g := planGeometry(300, 40, 0)
	cfg := DefaultConfig()
	target := ComputeTarget(g, cfg)

	a := BuildPlan(g, target, 1234, cfg)
	b := BuildPlan(g, target, 1234, cfg)
	assert.Equal(t, a, b, "same seed must reproduce the identical plan")

	c := BuildPlan(g, target, 1235, cfg)
	assert.NotEqual(t, a.Waypoints, c.Waypoints, "different seeds must differ")
}

func TestBuildPlanWaypointCountScalesWithDistance(t *testing.T) {
	cfg := DefaultConfig()

	short := BuildPlan(planGeometry(80, 40, 0), 5, 7, cfg)
	long := BuildPlan(planGeometry(600, 40, 0), 540, 7, cfg)

	// Counts include the starting waypoint.
	assert.Equal(t, 9, len(short.Waypoints), "short travel floors at 8 steps")
	assert.Equal(t, 31, len(long.Waypoints), "long travel caps at 30 steps")
}

func TestBuildPlanStaysOnTrack(t *testing.T) {
	g := planGeometry(300, 40, 0)
	cfg := DefaultConfig()
	target := ComputeTarget(g, cfg)

	for seed := int64(1); seed <= 50; seed++ {
		plan := buildPlan(g, target, seed, 2.0, cfg)
		for i, wp := range plan.Waypoints {
			assert.GreaterOrEqual(t, wp.Offset, 0.0, "seed %d waypoint %d below track", seed, i)
			assert.LessOrEqual(t, wp.Offset, g.MaxOffset(), "seed %d waypoint %d past track", seed, i)
		}
	}
}

func TestBuildPlanDelaysAreBoundedAndUneven(t *testing.T) {
	g := planGeometry(300, 40, 0)
	cfg := DefaultConfig()
	plan := BuildPlan(g, ComputeTarget(g, cfg), 99, cfg)

	deltas := map[int64]bool{}
	for i := 1; i < len(plan.Waypoints); i++ {
		d := plan.Waypoints[i].AtMs - plan.Waypoints[i-1].AtMs
		assert.GreaterOrEqual(t, d, cfg.MinStepDelay.Milliseconds())
		assert.Less(t, d, cfg.MaxStepDelay.Milliseconds())
		deltas[d] = true
	}
	// Fixed intervals are a detectable signature; a real plan must vary.
	assert.Greater(t, len(deltas), 1, "per-waypoint delays must not be a fixed interval")
}

func TestBuildPlanNoMovementNeeded(t *testing.T) {
	g := planGeometry(300, 40, 240)
	cfg := DefaultConfig()

	plan := BuildPlan(g, 240, 5, cfg)

	require.Len(t, plan.Waypoints, 1)
	assert.True(t, plan.Noop())
	assert.Equal(t, 240.0, plan.Waypoints[0].Offset)
	assert.Equal(t, int64(0), plan.Waypoints[0].AtMs)
}
