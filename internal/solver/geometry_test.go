package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeHappyPath(t *testing.T) {
	h := newFakeHandle(280, 40, 40, 12)
	cfg := DefaultConfig()

	g, err := Probe(context.Background(), h, cfg)

	require.NoError(t, err)
	assert.Equal(t, 100.0, g.ContainerX)
	assert.Equal(t, 200.0, g.ContainerY)
	assert.Equal(t, 280.0, g.ContainerWidth)
	assert.Equal(t, 40.0, g.SliderWidth)
	assert.Equal(t, 12.0, g.SliderOffset)
	assert.False(t, g.CapturedAt.IsZero())
}

func TestProbeDetachedHandle(t *testing.T) {
	h := newFakeHandle(280, 40, 40, 0)
	h.attachScript = []bool{false}

	_, err := Probe(context.Background(), h, DefaultConfig())
	assert.ErrorIs(t, err, ErrGeometryUnavailable)
}

func TestProbeMissingElements(t *testing.T) {
	t.Run("container missing", func(t *testing.T) {
		h := newFakeHandle(280, 40, 40, 0)
		h.container = nil
		_, err := Probe(context.Background(), h, DefaultConfig())
		assert.ErrorIs(t, err, ErrGeometryUnavailable)
	})

	t.Run("slider missing", func(t *testing.T) {
		h := newFakeHandle(280, 40, 40, 0)
		h.slider = nil
		_, err := Probe(context.Background(), h, DefaultConfig())
		assert.ErrorIs(t, err, ErrGeometryUnavailable)
	})

	t.Run("zero width container", func(t *testing.T) {
		h := newFakeHandle(0, 40, 40, 0)
		_, err := Probe(context.Background(), h, DefaultConfig())
		assert.ErrorIs(t, err, ErrGeometryUnavailable)
	})

	t.Run("slider as wide as container", func(t *testing.T) {
		h := newFakeHandle(40, 40, 40, 0)
		_, err := Probe(context.Background(), h, DefaultConfig())
		assert.ErrorIs(t, err, ErrGeometryUnavailable)
	})

	t.Run("query error", func(t *testing.T) {
		h := newFakeHandle(280, 40, 40, 0)
		h.boxErr = errors.New("execution context destroyed")
		_, err := Probe(context.Background(), h, DefaultConfig())
		assert.ErrorIs(t, err, ErrGeometryUnavailable)
	})
}

func TestProbeClampsObservedOffset(t *testing.T) {
	// Slider rendered left of the container start (mid-animation reset).
	h := newFakeHandle(280, 40, 40, 0)
	h.slider.X = h.container.X - 15

	g, err := Probe(context.Background(), h, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.SliderOffset)

	// Slider rendered past the track end.
	h = newFakeHandle(280, 40, 40, 0)
	h.slider.X = h.container.X + 500

	g, err = Probe(context.Background(), h, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, g.MaxOffset(), g.SliderOffset)
}
