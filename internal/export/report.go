package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reviewradar/internal/scraper"
)

// RunReport is the exported record of one crawl run.
type RunReport struct {
	SessionID     string            `json:"session_id"`
	TargetName    string            `json:"target_name"`
	TargetURL     string            `json:"target_url"`
	CrawledAt     time.Time         `json:"crawled_at"`
	ChallengeSeen bool              `json:"challenge_seen"`
	SolveStatus   string            `json:"solve_status,omitempty"`
	SolveAttempts int               `json:"solve_attempts,omitempty"`
	Page          *scraper.PageData `json:"page"`
}

// WriteJSON writes the report under dir and returns the file path.
func WriteJSON(dir string, report *RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", report.SessionID))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// WriteMarkdown writes a human-readable summary next to the JSON report.
func WriteMarkdown(dir string, report *RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.md", report.SessionID))
	if err := os.WriteFile(path, []byte(Markdown(report)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Markdown renders the report as a markdown document.
func Markdown(report *RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Crawl report: %s\n\n", report.TargetName)
	fmt.Fprintf(&b, "- URL: %s\n", report.TargetURL)
	fmt.Fprintf(&b, "- Session: %s\n", report.SessionID)
	fmt.Fprintf(&b, "- Crawled: %s\n", report.CrawledAt.Format(time.RFC3339))
	if report.ChallengeSeen {
		fmt.Fprintf(&b, "- Challenge: %s after %d attempt(s)\n", report.SolveStatus, report.SolveAttempts)
	} else {
		b.WriteString("- Challenge: none\n")
	}

	if report.Page == nil {
		b.WriteString("\nNo page data extracted.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\n## %s\n\n", report.Page.ProductName)
	fmt.Fprintf(&b, "Aggregate rating %.1f across %d reviews.\n", report.Page.AggregateRating, report.Page.ReviewTotal)

	if len(report.Page.Pricing) > 0 {
		b.WriteString("\n## Pricing\n\n")
		b.WriteString("| Plan | Price |\n|------|-------|\n")
		for _, plan := range report.Page.Pricing {
			fmt.Fprintf(&b, "| %s | %s |\n", plan.Name, plan.Price)
		}
	}

	if len(report.Page.Reviews) > 0 {
		b.WriteString("\n## Reviews\n")
		for _, review := range report.Page.Reviews {
			fmt.Fprintf(&b, "\n### %s (%.1f) by %s\n\n", orDefault(review.Title, "Untitled"), review.Rating, orDefault(review.Author, "anonymous"))
			fmt.Fprintf(&b, "%s\n", review.Body)
			if review.Date != "" {
				fmt.Fprintf(&b, "\n_%s_\n", review.Date)
			}
		}
	}

	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
