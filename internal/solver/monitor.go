package solver

import (
	"context"
	"time"
)

// FrameHealthSample is an on-demand health reading of a challenge handle.
// Ephemeral: consulted during an attempt, never stored beyond it.
type FrameHealthSample struct {
	CheckedAt time.Time `json:"checked_at"`
	Attached  bool      `json:"attached"`
	Queryable bool      `json:"queryable"`
}

// Healthy reports whether the surface is both attached and DOM-queryable.
func (s FrameHealthSample) Healthy() bool {
	return s.Attached && s.Queryable
}

// FrameMonitor verifies that a single challenge handle is still usable.
// State machine: Attached -> {Attached, Detached}. Once Detached is
// observed the handle is terminal for the attempt; the monitor keeps
// reporting unhealthy without touching the DOM again.
type FrameMonitor struct {
	cfg      Config
	detached bool
}

func NewFrameMonitor(cfg Config) *FrameMonitor {
	return &FrameMonitor{cfg: cfg}
}

// CheckHealth samples the handle's attachment and queryability. A failed
// element query counts as detachment: the surfaces we deal with tear the
// whole frame down rather than individual elements.
func (m *FrameMonitor) CheckHealth(ctx context.Context, h ChallengeHandle) FrameHealthSample {
	sample := FrameHealthSample{CheckedAt: time.Now()}
	if m.detached {
		return sample
	}

	sample.Attached = h.IsAttached(ctx)
	if sample.Attached {
		_, err := h.QueryBox(ctx, m.cfg.SliderSelector)
		sample.Queryable = err == nil
	}

	if !sample.Healthy() {
		m.detached = true
	}
	return sample
}

// EnsureStable is the pre-flight check before starting movement on a plan.
func (m *FrameMonitor) EnsureStable(ctx context.Context, h ChallengeHandle, plan MovementPlan) bool {
	if len(plan.Waypoints) == 0 {
		return false
	}
	return m.CheckHealth(ctx, h).Healthy()
}

// Detached reports whether a detachment has been observed on this handle.
func (m *FrameMonitor) Detached() bool {
	return m.detached
}

// checkInterval returns how many waypoints to execute between health checks.
// Deliberately infrequent: every health check is extra DOM interaction, and
// excessive interaction during movement is itself a detachment trigger.
func checkInterval(planLen int) int {
	interval := planLen / 4
	if interval < 3 {
		return 3
	}
	if interval > 10 {
		return 10
	}
	return interval
}
