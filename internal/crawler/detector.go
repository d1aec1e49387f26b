package crawler

import (
	"regexp"
	"strings"
)

// PageState classifies what the crawler is looking at after navigation.
type PageState int

const (
	// PageClean means the target content is reachable.
	PageClean PageState = iota
	// PageChallenge means an interactive slider challenge is being served.
	PageChallenge
	// PageBlocked means a hard block page with no interactive way out.
	PageBlocked
)

func (s PageState) String() string {
	switch s {
	case PageClean:
		return "clean"
	case PageChallenge:
		return "challenge"
	case PageBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

var (
	challengePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)captcha-delivery\.com`),
		regexp.MustCompile(`(?i)geo\.captcha-delivery\.com`),
		regexp.MustCompile(`(?i)slide\s+(right\s+)?to\s+(complete|verify)`),
		regexp.MustCompile(`(?i)class="[^"]*sliderContainer[^"]*"`),
		regexp.MustCompile(`(?i)please verify you are a human`),
	}

	blockPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)you have been blocked`),
		regexp.MustCompile(`(?i)access\s+denied`),
		regexp.MustCompile(`(?i)request unsuccessful\.?\s+incapsula`),
		regexp.MustCompile(`(?i)<title>\s*403\s+forbidden`),
	}
)

// ClassifyPage inspects raw page HTML and decides whether the crawl can
// proceed, must solve a challenge first, or is dead on arrival. Challenge
// markers win over block markers: DataDome block pages embed the challenge
// iframe, and an embedded challenge is still solvable.
func ClassifyPage(html string) PageState {
	if strings.TrimSpace(html) == "" {
		return PageBlocked
	}

	for _, p := range challengePatterns {
		if p.MatchString(html) {
			return PageChallenge
		}
	}

	for _, p := range blockPatterns {
		if p.MatchString(html) {
			return PageBlocked
		}
	}

	return PageClean
}
