package solver

import (
	"fmt"
	"time"
)

// Default DataDome interstitial selectors. Site-version specific; override
// per site profile when the interstitial markup changes.
const (
	DefaultSliderSelector    = ".slider"
	DefaultContainerSelector = ".sliderContainer"
	DefaultSuccessMarker     = ".sliderContainer.sliderDone, .captcha-success"
	DefaultFailureMarker     = ".sliderContainer.sliderError, .box-error"
)

// Config parameterizes one solving session. All fields are read-only for
// the session's lifetime; attempt-to-attempt escalation varies jitter and
// seed internally, never the config itself.
type Config struct {
	MaxAttempts        int           `json:"max_attempts"`         // default 3
	AttemptTimeout     time.Duration `json:"attempt_timeout"`      // default 15s
	SuccessThresholdPx float64       `json:"success_threshold_px"` // default 20
	RNGSeed            int64         `json:"rng_seed"`             // 0 = derive from clock

	SliderSelector    string `json:"slider_selector"`
	ContainerSelector string `json:"container_selector"`
	SuccessMarker     string `json:"success_marker"`
	FailureMarker     string `json:"failure_marker"`

	// Per-waypoint delay bounds. Delays are drawn uniformly from
	// [MinStepDelay, MaxStepDelay); fixed intervals are a detectable
	// signature, so MaxStepDelay must exceed MinStepDelay.
	MinStepDelay time.Duration `json:"min_step_delay"` // default 15ms
	MaxStepDelay time.Duration `json:"max_step_delay"` // default 40ms

	// SettleDelay is how long to wait after movement before validating, so
	// the challenge can animate, verify server-side, and redirect.
	SettleDelay time.Duration `json:"settle_delay"` // default 500ms
}

// DefaultConfig returns the empirically derived defaults for the DataDome
// slider interstitial.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:        3,
		AttemptTimeout:     15 * time.Second,
		SuccessThresholdPx: 20,
		SliderSelector:     DefaultSliderSelector,
		ContainerSelector:  DefaultContainerSelector,
		SuccessMarker:      DefaultSuccessMarker,
		FailureMarker:      DefaultFailureMarker,
		MinStepDelay:       15 * time.Millisecond,
		MaxStepDelay:       40 * time.Millisecond,
		SettleDelay:        500 * time.Millisecond,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig so callers can
// override only what they care about.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxAttempts == 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = def.AttemptTimeout
	}
	if c.SuccessThresholdPx == 0 {
		c.SuccessThresholdPx = def.SuccessThresholdPx
	}
	if c.SliderSelector == "" {
		c.SliderSelector = def.SliderSelector
	}
	if c.ContainerSelector == "" {
		c.ContainerSelector = def.ContainerSelector
	}
	if c.SuccessMarker == "" {
		c.SuccessMarker = def.SuccessMarker
	}
	if c.FailureMarker == "" {
		c.FailureMarker = def.FailureMarker
	}
	if c.MinStepDelay == 0 {
		c.MinStepDelay = def.MinStepDelay
	}
	if c.MaxStepDelay == 0 {
		c.MaxStepDelay = def.MaxStepDelay
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = def.SettleDelay
	}
	return c
}

func (c Config) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be >= 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("%w: attempt timeout must be positive, got %v", ErrInvalidConfig, c.AttemptTimeout)
	}
	if c.SuccessThresholdPx < 0 {
		return fmt.Errorf("%w: success threshold must be >= 0, got %v", ErrInvalidConfig, c.SuccessThresholdPx)
	}
	if c.MaxStepDelay <= c.MinStepDelay {
		return fmt.Errorf("%w: max step delay %v must exceed min step delay %v", ErrInvalidConfig, c.MaxStepDelay, c.MinStepDelay)
	}
	return nil
}
