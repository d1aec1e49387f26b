package solver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// FrameLocator describes where to find the challenge surface in a tab.
type FrameLocator struct {
	// FrameSelector matches the iframe element hosting the challenge. Empty
	// means the challenge lives in the top document (the usual DataDome
	// block page).
	FrameSelector string
	// URLFragment is a substring of the challenge frame's URL, used to find
	// the out-of-process iframe target.
	URLFragment string
	// Timeout bounds how long to wait for the surface to appear.
	Timeout time.Duration
}

// DefaultFrameLocator matches the DataDome captcha-delivery iframe.
func DefaultFrameLocator() FrameLocator {
	return FrameLocator{
		FrameSelector: `iframe[src*="captcha-delivery"]`,
		URLFragment:   "captcha-delivery",
		Timeout:       10 * time.Second,
	}
}

// ChromedpHandle implements ChallengeHandle on top of a chromedp tab. When
// the challenge runs in a cross-origin iframe, element queries execute in
// the iframe's own target and boxes are translated into page coordinates
// via the iframe element's rect.
type ChromedpHandle struct {
	pageCtx  context.Context
	frameCtx context.Context
	frameSel string
	cancel   context.CancelFunc
}

// AcquireChallengeHandle waits for the challenge surface to appear in the
// tab and returns a handle scoped to it. The caller owns the handle for one
// attempt sequence and must Close it when the solve finishes.
func AcquireChallengeHandle(pageCtx context.Context, loc FrameLocator) (*ChromedpHandle, error) {
	if loc.Timeout == 0 {
		loc.Timeout = DefaultFrameLocator().Timeout
	}
	deadline := time.Now().Add(loc.Timeout)

	if loc.FrameSelector == "" {
		// Challenge in the top document: the tab context is the surface.
		return &ChromedpHandle{pageCtx: pageCtx, frameCtx: pageCtx}, nil
	}

	// Wait for the iframe element to exist and have real size.
	present := false
	for time.Now().Before(deadline) {
		js := fmt.Sprintf(`(function() {
			const f = document.querySelector(%q);
			if (!f) return false;
			const r = f.getBoundingClientRect();
			return r.width > 10 && r.height > 10;
		})()`, loc.FrameSelector)
		if err := chromedp.Run(pageCtx, chromedp.Evaluate(js, &present)); err != nil {
			return nil, fmt.Errorf("challenge frame query: %w", err)
		}
		if present {
			break
		}
		if err := chromedp.Run(pageCtx, chromedp.Sleep(250*time.Millisecond)); err != nil {
			return nil, err
		}
	}
	if !present {
		return nil, fmt.Errorf("challenge frame %q not found within %v", loc.FrameSelector, loc.Timeout)
	}

	// The DataDome iframe is cross-origin, so it runs as its own target.
	// Attach a child chromedp context to it for element queries.
	var frameID target.ID
	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		infos, err := target.GetTargets().Do(ctx)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if info.Type == "iframe" && strings.Contains(info.URL, loc.URLFragment) {
				frameID = info.TargetID
				return nil
			}
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("enumerate frame targets: %w", err)
	}

	h := &ChromedpHandle{pageCtx: pageCtx, frameSel: loc.FrameSelector}
	if frameID != "" {
		frameCtx, cancel := chromedp.NewContext(pageCtx, chromedp.WithTargetID(frameID))
		h.frameCtx = frameCtx
		h.cancel = cancel
		log.Printf("🔐 Attached to challenge frame target %s", frameID)
	} else {
		// Same-process iframe; fall back to the tab context.
		h.frameCtx = pageCtx
		log.Printf("🔐 Challenge frame %q has no separate target, using tab context", loc.FrameSelector)
	}
	return h, nil
}

// Close releases the frame-scoped chromedp context, if any.
func (h *ChromedpHandle) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

// IsAttached reports whether the challenge document still answers queries
// and, for iframe-hosted challenges, whether the iframe element is still in
// the page.
func (h *ChromedpHandle) IsAttached(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if h.frameSel != "" {
		var present bool
		js := fmt.Sprintf(`document.querySelector(%q) !== null`, h.frameSel)
		if err := chromedp.Run(h.pageCtx, chromedp.Evaluate(js, &present)); err != nil || !present {
			return false
		}
	}
	var state string
	if err := chromedp.Run(h.frameCtx, chromedp.Evaluate(`document.readyState`, &state)); err != nil {
		return false
	}
	return state != ""
}

// QueryBox returns the page-coordinate bounding box of the first element
// matching the selector inside the challenge surface, or nil when missing.
func (h *ChromedpHandle) QueryBox(ctx context.Context, selector string) (*Box, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var box *Box
	js := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		if (r.width === 0 && r.height === 0) return null;
		return {x: r.x, y: r.y, width: r.width, height: r.height};
	})()`, selector)
	if err := chromedp.Run(h.frameCtx, chromedp.Evaluate(js, &box)); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if box == nil {
		return nil, nil
	}

	// Frame-local coordinates: shift by the iframe element's position.
	if h.frameSel != "" && h.frameCtx != h.pageCtx {
		var frameBox *Box
		frameJS := fmt.Sprintf(`(function() {
			const f = document.querySelector(%q);
			if (!f) return null;
			const r = f.getBoundingClientRect();
			return {x: r.x, y: r.y, width: r.width, height: r.height};
		})()`, h.frameSel)
		if err := chromedp.Run(h.pageCtx, chromedp.Evaluate(frameJS, &frameBox)); err != nil {
			return nil, fmt.Errorf("query frame element: %w", err)
		}
		if frameBox == nil {
			return nil, fmt.Errorf("frame element %q gone", h.frameSel)
		}
		box.X += frameBox.X
		box.Y += frameBox.Y
	}
	return box, nil
}

// HasMarker reports whether any element matching the selector exists in the
// challenge surface.
func (h *ChromedpHandle) HasMarker(ctx context.Context, selector string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	var present bool
	js := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	if err := chromedp.Run(h.frameCtx, chromedp.Evaluate(js, &present)); err != nil {
		return false, fmt.Errorf("marker %q: %w", selector, err)
	}
	return present, nil
}

// ChromedpDriver implements PointerDriver with CDP input events dispatched
// on the tab, in page coordinates.
type ChromedpDriver struct {
	ctx context.Context
}

func NewChromedpDriver(pageCtx context.Context) *ChromedpDriver {
	return &ChromedpDriver{ctx: pageCtx}
}

func (d *ChromedpDriver) PointerDown(ctx context.Context, x, y float64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return chromedp.Run(d.ctx,
		chromedp.MouseEvent("mousePressed", x, y, chromedp.ButtonLeft, chromedp.ClickCount(1)),
	)
}

func (d *ChromedpDriver) MoveTo(ctx context.Context, x, y float64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return chromedp.Run(d.ctx,
		chromedp.MouseEvent("mouseMoved", x, y, chromedp.ButtonLeft),
	)
}

func (d *ChromedpDriver) PointerUp(ctx context.Context, x, y float64) error {
	// Deliberately ignores ctx expiry: the release must go out even when
	// the attempt deadline has passed, or the input device stays stuck.
	return chromedp.Run(d.ctx,
		chromedp.MouseEvent("mouseReleased", x, y, chromedp.ButtonLeft, chromedp.ClickCount(1)),
	)
}
