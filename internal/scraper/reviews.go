package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Review is one extracted review, before persistence.
type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Date   string  `json:"date"`
}

// PricingPlan is one extracted pricing table entry.
type PricingPlan struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// PageData is everything the scraper pulls from one rendered page.
type PageData struct {
	ProductName     string        `json:"product_name"`
	AggregateRating float64       `json:"aggregate_rating"`
	ReviewTotal     int           `json:"review_total"`
	Reviews         []Review      `json:"reviews"`
	Pricing         []PricingPlan `json:"pricing"`
}

// SiteProfile holds the CSS selectors for one review-aggregator layout.
type SiteProfile struct {
	Name            string
	ProductName     string
	AggregateRating string
	ReviewTotal     string
	ReviewCard      string
	ReviewAuthor    string
	ReviewRating    string
	ReviewTitle     string
	ReviewBody      string
	ReviewDate      string
	PricingRow      string
	PricingName     string
	PricingPrice    string
}

var profiles = map[string]SiteProfile{
	"generic": {
		Name:            "generic",
		ProductName:     "h1",
		AggregateRating: ".aggregate-rating, [itemprop=ratingValue]",
		ReviewTotal:     ".review-count, [itemprop=reviewCount]",
		ReviewCard:      ".review-card, .review, [itemprop=review]",
		ReviewAuthor:    ".review-author, [itemprop=author]",
		ReviewRating:    ".review-rating, [itemprop=ratingValue]",
		ReviewTitle:     ".review-title, [itemprop=name]",
		ReviewBody:      ".review-body, [itemprop=reviewBody]",
		ReviewDate:      ".review-date, [itemprop=datePublished]",
		PricingRow:      ".pricing-plan",
		PricingName:     ".plan-name",
		PricingPrice:    ".plan-price",
	},
	"capterra": {
		Name:            "capterra",
		ProductName:     "h1[data-testid=product-name], h1",
		AggregateRating: "[data-testid=overall-rating]",
		ReviewTotal:     "[data-testid=review-count]",
		ReviewCard:      "[data-testid=review-card]",
		ReviewAuthor:    "[data-testid=reviewer-name]",
		ReviewRating:    "[data-testid=rating]",
		ReviewTitle:     "[data-testid=review-title]",
		ReviewBody:      "[data-testid=review-text]",
		ReviewDate:      "[data-testid=review-date]",
		PricingRow:      "[data-testid=pricing-card]",
		PricingName:     "[data-testid=plan-name]",
		PricingPrice:    "[data-testid=plan-price]",
	},
}

// ProfileFor returns the selector profile for a target, falling back to the
// generic layout when the name is unknown.
func ProfileFor(name string) SiteProfile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles["generic"]
}

// Extract parses rendered page HTML into structured review data.
func Extract(html string, profile SiteProfile) (*PageData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}

	data := &PageData{
		ProductName:     cleanText(doc.Find(profile.ProductName).First().Text()),
		AggregateRating: parseRating(doc.Find(profile.AggregateRating).First().Text()),
		ReviewTotal:     parseCount(doc.Find(profile.ReviewTotal).First().Text()),
	}

	doc.Find(profile.ReviewCard).Each(func(_ int, card *goquery.Selection) {
		review := Review{
			Author: cleanText(card.Find(profile.ReviewAuthor).First().Text()),
			Rating: parseRating(card.Find(profile.ReviewRating).First().Text()),
			Title:  cleanText(card.Find(profile.ReviewTitle).First().Text()),
			Body:   cleanText(card.Find(profile.ReviewBody).First().Text()),
			Date:   cleanText(card.Find(profile.ReviewDate).First().Text()),
		}
		if review.Body == "" && review.Title == "" {
			return
		}
		data.Reviews = append(data.Reviews, review)
	})

	doc.Find(profile.PricingRow).Each(func(_ int, row *goquery.Selection) {
		plan := PricingPlan{
			Name:  cleanText(row.Find(profile.PricingName).First().Text()),
			Price: cleanText(row.Find(profile.PricingPrice).First().Text()),
		}
		if plan.Name == "" {
			return
		}
		data.Pricing = append(data.Pricing, plan)
	})

	if data.ReviewTotal == 0 {
		data.ReviewTotal = len(data.Reviews)
	}

	return data, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseRating pulls the first decimal number out of strings like
// "4.5", "4.5 out of 5" or "Rating: 4/5".
func parseRating(s string) float64 {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}) {
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			return v
		}
	}
	return 0
}

func parseCount(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
