package solver

// ComputeTarget maps a geometry snapshot to the offset the slider must
// travel to. Pure: identical geometry and config always yield an identical
// target.
//
// The slider lands at the right end of the track minus the validator's
// tolerance, so a small undershoot during execution still lands inside the
// accepted window.
func ComputeTarget(g PuzzleGeometry, cfg Config) float64 {
	target := g.ContainerWidth - g.SliderWidth - cfg.SuccessThresholdPx
	return clamp(target, 0, g.MaxOffset())
}
