package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSuccessMarkerWins(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	h.markers[cfg.SuccessMarker] = true

	// Marker short-circuits even though the slider never moved.
	v := Validate(context.Background(), h, planGeometry(280, 40, 0), 220, cfg)
	assert.Equal(t, VerdictSolved, v)
}

func TestValidateOffsetWithinThreshold(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	before, _ := Probe(context.Background(), h, cfg)
	h.moveSliderTo(212) // |212-220| = 8 <= 20

	v := Validate(context.Background(), h, before, 220, cfg)
	assert.Equal(t, VerdictSolved, v)
}

func TestValidateFailureMarkerBeatsOffset(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	before, _ := Probe(context.Background(), h, cfg)
	h.moveSliderTo(212)
	h.markers[cfg.FailureMarker] = true

	v := Validate(context.Background(), h, before, 220, cfg)
	assert.Equal(t, VerdictFailed, v)
}

func TestValidateSnapBackIsFailure(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	before, _ := Probe(context.Background(), h, cfg)
	// Challenge rejected the drag and reset the slider to the track start.
	h.moveSliderTo(0)

	v := Validate(context.Background(), h, before, 220, cfg)
	assert.Equal(t, VerdictFailed, v)
}

func TestValidateProbeFailureIsIndeterminate(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	before, _ := Probe(context.Background(), h, cfg)
	// The surface vanished after the drag. That can mean the challenge was
	// solved and the page redirected, so it must not be read as failure.
	h.boxErr = errors.New("frame gone")

	v := Validate(context.Background(), h, before, 220, cfg)
	assert.Equal(t, VerdictIndeterminate, v)
}

func TestValidateUnclassifiedStateIsIndeterminate(t *testing.T) {
	cfg := DefaultConfig()
	h := newFakeHandle(280, 40, 40, 0)
	before, _ := Probe(context.Background(), h, cfg)
	// Stalled mid-track: outside the threshold, not snapped back.
	h.moveSliderTo(120)

	v := Validate(context.Background(), h, before, 220, cfg)
	assert.Equal(t, VerdictIndeterminate, v)
}
