package solver

import (
	"math"
	"math/rand"
	"time"
)

// Waypoint is one timestamped intermediate slider position.
type Waypoint struct {
	Offset float64 `json:"offset"`
	AtMs   int64   `json:"at_ms"` // elapsed since movement start, non-decreasing
}

// MovementPlan is the ordered waypoint sequence for one attempt. Owned
// exclusively by that attempt and discarded after execution.
type MovementPlan struct {
	Waypoints []Waypoint `json:"waypoints"`
	Target    float64    `json:"target"`
	Seed      int64      `json:"seed"`
}

// Noop reports whether the plan requires no movement at all.
func (p MovementPlan) Noop() bool {
	return len(p.Waypoints) <= 1
}

// Duration is the planned wall-clock length of the movement.
func (p MovementPlan) Duration() time.Duration {
	if len(p.Waypoints) == 0 {
		return 0
	}
	return time.Duration(p.Waypoints[len(p.Waypoints)-1].AtMs) * time.Millisecond
}

// BuildPlan expands a target offset into a human-like waypoint sequence.
// Waypoint count scales with travel distance (8-30), velocity follows an
// ease-in/ease-out cubic, and per-waypoint delay and position carry bounded
// jitter from the seeded RNG. Two calls with the same inputs produce the
// same plan.
func BuildPlan(g PuzzleGeometry, target float64, seed int64, cfg Config) MovementPlan {
	return buildPlan(g, target, seed, 1.0, cfg)
}

// buildPlan additionally takes a jitter scale so the controller can widen
// jitter bounds between attempts without touching the config.
func buildPlan(g PuzzleGeometry, target float64, seed int64, jitterScale float64, cfg Config) MovementPlan {
	start := g.SliderOffset
	distance := target - start

	// Already on target: single waypoint, the validator short-circuits.
	if math.Abs(distance) < 0.5 {
		return MovementPlan{
			Waypoints: []Waypoint{{Offset: start, AtMs: 0}},
			Target:    target,
			Seed:      seed,
		}
	}

	steps := int(8 + math.Abs(distance)/18)
	if steps < 8 {
		steps = 8
	}
	if steps > 30 {
		steps = 30
	}

	rng := rand.New(rand.NewSource(seed))
	minDelayMs := cfg.MinStepDelay.Milliseconds()
	delaySpanMs := cfg.MaxStepDelay.Milliseconds() - minDelayMs

	waypoints := make([]Waypoint, 0, steps+1)
	waypoints = append(waypoints, Waypoint{Offset: start, AtMs: 0})

	var elapsed int64
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		offset := start + distance*easeInOutCubic(t)

		// Intermediate waypoints wobble a little; the last one lands exactly
		// on target.
		if i < steps {
			offset += (rng.Float64()*2 - 1) * 2.5 * jitterScale
			offset = clamp(offset, 0, g.MaxOffset())
		} else {
			offset = target
		}

		elapsed += minDelayMs + rng.Int63n(delaySpanMs)
		waypoints = append(waypoints, Waypoint{Offset: offset, AtMs: elapsed})
	}

	return MovementPlan{Waypoints: waypoints, Target: target, Seed: seed}
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
