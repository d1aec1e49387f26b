package solver

import (
	"context"
	"fmt"
	"time"
)

// PuzzleGeometry is an immutable snapshot of the challenge surface layout,
// captured fresh at the start of every attempt. Later probes supersede it;
// it is never mutated.
type PuzzleGeometry struct {
	ContainerX      float64   `json:"container_x"`
	ContainerY      float64   `json:"container_y"`
	ContainerWidth  float64   `json:"container_width"`
	ContainerHeight float64   `json:"container_height"`
	SliderWidth     float64   `json:"slider_width"`
	SliderOffset    float64   `json:"slider_offset"` // current, relative to container left edge
	CapturedAt      time.Time `json:"captured_at"`
}

// MaxOffset is the rightmost offset the slider can travel to.
func (g PuzzleGeometry) MaxOffset() float64 {
	return g.ContainerWidth - g.SliderWidth
}

// Probe reads the current DOM layout of the challenge surface and returns a
// geometry snapshot. It performs no retries; retry belongs to the controller.
// Fails with ErrGeometryUnavailable when the slider or container is missing,
// zero-sized, or the handle is detached.
func Probe(ctx context.Context, h ChallengeHandle, cfg Config) (PuzzleGeometry, error) {
	if !h.IsAttached(ctx) {
		return PuzzleGeometry{}, fmt.Errorf("%w: surface detached", ErrGeometryUnavailable)
	}

	container, err := h.QueryBox(ctx, cfg.ContainerSelector)
	if err != nil {
		return PuzzleGeometry{}, fmt.Errorf("%w: container query: %v", ErrGeometryUnavailable, err)
	}
	if container == nil || container.Width <= 0 {
		return PuzzleGeometry{}, fmt.Errorf("%w: container %q missing or zero-width", ErrGeometryUnavailable, cfg.ContainerSelector)
	}

	slider, err := h.QueryBox(ctx, cfg.SliderSelector)
	if err != nil {
		return PuzzleGeometry{}, fmt.Errorf("%w: slider query: %v", ErrGeometryUnavailable, err)
	}
	if slider == nil || slider.Width <= 0 {
		return PuzzleGeometry{}, fmt.Errorf("%w: slider %q missing or zero-width", ErrGeometryUnavailable, cfg.SliderSelector)
	}
	if slider.Width >= container.Width {
		return PuzzleGeometry{}, fmt.Errorf("%w: slider width %.1f not smaller than container width %.1f", ErrGeometryUnavailable, slider.Width, container.Width)
	}

	g := PuzzleGeometry{
		ContainerX:      container.X,
		ContainerY:      container.Y,
		ContainerWidth:  container.Width,
		ContainerHeight: container.Height,
		SliderWidth:     slider.Width,
		SliderOffset:    clamp(slider.X-container.X, 0, container.Width-slider.Width),
		CapturedAt:      time.Now(),
	}
	return g, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
