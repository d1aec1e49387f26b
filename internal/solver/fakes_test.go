package solver

import (
	"context"
	"sync"
	"time"
)

// fakeHandle scripts the challenge surface for tests. Attachment answers
// come from a script (the last value repeats); element boxes and markers
// are plain fields.
type fakeHandle struct {
	mu sync.Mutex

	attachScript []bool
	attachCalls  int

	container *Box
	slider    *Box
	boxErr    error
	markers   map[string]bool

	containerQueries int
	sliderQueries    int
}

func newFakeHandle(containerW, containerH, sliderW, sliderOffset float64) *fakeHandle {
	return &fakeHandle{
		attachScript: []bool{true},
		container:    &Box{X: 100, Y: 200, Width: containerW, Height: containerH},
		slider:       &Box{X: 100 + sliderOffset, Y: 200, Width: sliderW, Height: containerH},
		markers:      map[string]bool{},
	}
}

func (f *fakeHandle) IsAttached(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.attachCalls
	f.attachCalls++
	if i >= len(f.attachScript) {
		i = len(f.attachScript) - 1
	}
	return f.attachScript[i]
}

func (f *fakeHandle) QueryBox(ctx context.Context, selector string) (*Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.boxErr != nil {
		return nil, f.boxErr
	}
	switch selector {
	case DefaultContainerSelector:
		f.containerQueries++
		return f.container, nil
	case DefaultSliderSelector:
		f.sliderQueries++
		return f.slider, nil
	}
	return nil, nil
}

func (f *fakeHandle) HasMarker(ctx context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markers[selector], nil
}

// moveSliderTo repositions the fake slider at an offset from the container
// left edge, as the real surface does after a drag.
func (f *fakeHandle) moveSliderTo(offset float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slider = &Box{X: f.container.X + offset, Y: f.slider.Y, Width: f.slider.Width, Height: f.slider.Height}
}

// fakeDriver records pointer traffic and can inject a failure on the nth
// move (1-based; 0 disables).
type fakeDriver struct {
	mu        sync.Mutex
	downs     int
	ups       int
	moves     int
	failMoveN int
	moveErr   error
	positions [][2]float64
}

func (d *fakeDriver) PointerDown(ctx context.Context, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.downs++
	return nil
}

func (d *fakeDriver) MoveTo(ctx context.Context, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.moves++
	d.positions = append(d.positions, [2]float64{x, y})
	if d.failMoveN > 0 && d.moves >= d.failMoveN {
		return d.moveErr
	}
	return nil
}

func (d *fakeDriver) PointerUp(ctx context.Context, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ups++
	return nil
}

func (d *fakeDriver) balance() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.downs, d.ups
}

func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
