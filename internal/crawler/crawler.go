package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"reviewradar/internal/config"
	"reviewradar/internal/models"
	"reviewradar/internal/scraper"
	"reviewradar/internal/solver"
	"reviewradar/pkg/chrome"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// Crawler drives one browser session per crawl run.
type Crawler struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Crawler {
	return &Crawler{cfg: cfg}
}

// Outcome is everything a crawl run produced, ready for persistence.
type Outcome struct {
	SessionID     string
	FinalState    PageState
	ChallengeSeen bool
	SolveResult   *solver.SolveResult
	Page          *scraper.PageData
}

// Crawl navigates to the target, defeats the slider challenge if one is
// served, and extracts review data from the rendered page.
func (c *Crawler) Crawl(ctx context.Context, target *models.Target) (*Outcome, error) {
	outcome := &Outcome{SessionID: uuid.New().String()}

	session, err := chrome.NewSession(c.cfg)
	if err != nil {
		return outcome, fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Close()

	navCtx, cancel := context.WithTimeout(session.Ctx, time.Duration(c.cfg.Crawler.NavigationTimeoutSec)*time.Second)
	defer cancel()

	log.Printf("🕷️ Crawling %s (%s)", target.Name, target.URL)

	html, err := c.renderPage(navCtx, target.URL)
	if err != nil {
		return outcome, fmt.Errorf("failed to load target page: %w", err)
	}

	outcome.FinalState = ClassifyPage(html)
	if outcome.FinalState == PageChallenge {
		outcome.ChallengeSeen = true
		html, err = c.defeatChallenge(ctx, session.Ctx, target, outcome)
		if err != nil {
			return outcome, err
		}
	}

	if outcome.FinalState == PageBlocked {
		return outcome, fmt.Errorf("target served a hard block page")
	}

	profile := scraper.ProfileFor(target.SiteProfile)
	page, err := scraper.Extract(html, profile)
	if err != nil {
		return outcome, fmt.Errorf("failed to extract page data: %w", err)
	}
	outcome.Page = page

	log.Printf("✅ Crawl %s extracted %d reviews", outcome.SessionID, len(page.Reviews))
	return outcome, nil
}

// defeatChallenge runs the slider solver against the challenge surface and
// returns the post-challenge page HTML.
func (c *Crawler) defeatChallenge(ctx, pageCtx context.Context, target *models.Target, outcome *Outcome) (string, error) {
	log.Printf("🧩 Challenge detected on %s, engaging solver", target.URL)

	handle, err := solver.AcquireChallengeHandle(pageCtx, solver.DefaultFrameLocator())
	if err != nil {
		outcome.FinalState = PageBlocked
		return "", fmt.Errorf("failed to acquire challenge surface: %w", err)
	}
	defer handle.Close()

	solveCfg := c.solverConfig(target)
	result, err := solver.New(solver.NewChromedpDriver(pageCtx)).Solve(ctx, handle, solveCfg)
	outcome.SolveResult = &result
	if err != nil {
		outcome.FinalState = PageBlocked
		return "", fmt.Errorf("solver failed: %w", err)
	}

	if result.Status != solver.StatusSolved {
		outcome.FinalState = PageBlocked
		return "", fmt.Errorf("challenge not defeated after %d attempts", len(result.Attempts))
	}

	// Give the page time to swap the challenge for real content.
	settle := time.Duration(c.cfg.Crawler.PageSettleSec) * time.Second
	select {
	case <-time.After(settle):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	html, err := c.renderPage(pageCtx, "")
	if err != nil {
		return "", fmt.Errorf("failed to re-read page after solve: %w", err)
	}

	outcome.FinalState = ClassifyPage(html)
	return html, nil
}

// renderPage navigates (when url is set) and returns the document HTML.
func (c *Crawler) renderPage(ctx context.Context, url string) (string, error) {
	var html string
	actions := []chromedp.Action{}
	if url != "" {
		actions = append(actions,
			chromedp.Navigate(url),
			chromedp.Sleep(time.Duration(c.cfg.Crawler.PageSettleSec)*time.Second),
		)
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(ctx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

// solverConfig builds the solver config from global defaults plus the
// target's stored JSON overrides.
func (c *Crawler) solverConfig(target *models.Target) solver.Config {
	cfg := solver.DefaultConfig()
	cfg.MaxAttempts = c.cfg.Solver.MaxAttempts
	cfg.AttemptTimeout = time.Duration(c.cfg.Solver.AttemptTimeoutSec) * time.Second
	cfg.SuccessThresholdPx = float64(c.cfg.Solver.SuccessThresholdPx)

	overrides, err := target.SolverOverrides()
	if err != nil {
		log.Printf("⚠️ Ignoring malformed solver overrides on target %d: %v", target.ID, err)
		return cfg
	}

	if v, ok := overrides["max_attempts"].(float64); ok && v > 0 {
		cfg.MaxAttempts = int(v)
	}
	if v, ok := overrides["success_threshold_px"].(float64); ok && v > 0 {
		cfg.SuccessThresholdPx = v
	}
	if v, ok := overrides["slider_selector"].(string); ok && v != "" {
		cfg.SliderSelector = v
	}
	if v, ok := overrides["container_selector"].(string); ok && v != "" {
		cfg.ContainerSelector = v
	}

	return cfg
}
