package solver

import "context"

// Box is an element bounding box in page coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ChallengeHandle is an opaque reference to the isolated document context
// presenting the slider puzzle. Implementations must scope element queries
// to that context and must never cache query results across calls.
type ChallengeHandle interface {
	// IsAttached reports whether the challenge surface is still attached to
	// the page. Read-only and cheap.
	IsAttached(ctx context.Context) bool

	// QueryBox returns the bounding box of the first element matching the
	// selector, translated to page coordinates. Returns (nil, nil) when the
	// element does not exist and an error when the surface cannot be queried
	// at all.
	QueryBox(ctx context.Context, selector string) (*Box, error)

	// HasMarker reports whether any element matching the selector exists in
	// the challenge surface.
	HasMarker(ctx context.Context, selector string) (bool, error)
}

// PointerDriver replays low-level pointer input in the coordinate space of
// the surrounding page.
type PointerDriver interface {
	PointerDown(ctx context.Context, x, y float64) error
	MoveTo(ctx context.Context, x, y float64) error
	PointerUp(ctx context.Context, x, y float64) error
}
