package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type User struct {
	BaseModel
	Username string `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
	Status   int    `json:"status" gorm:"default:1"` // 1:active, 0:inactive
}

// Target is one review-aggregator page registered for crawling.
type Target struct {
	BaseModel
	Name           string `json:"name" gorm:"size:200;not null"`
	URL            string `json:"url" gorm:"size:1000;not null"`
	SiteProfile    string `json:"site_profile" gorm:"size:100;default:'generic'"` // selector profile used by the scraper
	CronExpression string `json:"cron_expression" gorm:"size:100"`                // empty means manual runs only
	SolverConfig   string `json:"solver_config" gorm:"type:text"`                 // JSON overrides for the slider solver
	Status         int    `json:"status" gorm:"default:1"`
	UserID         uint   `json:"user_id" gorm:"not null"`
	User           User   `json:"user" gorm:"foreignKey:UserID"`
}

// SolverOverrides decodes the per-target solver overrides.
func (t *Target) SolverOverrides() (map[string]interface{}, error) {
	if t.SolverConfig == "" {
		return nil, nil
	}
	var overrides map[string]interface{}
	if err := json.Unmarshal([]byte(t.SolverConfig), &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

// Crawl run statuses.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusBlocked   = "blocked" // challenge seen and not defeated
	RunStatusFailed    = "failed"
)

// CrawlRun is one crawl session against a target.
type CrawlRun struct {
	BaseModel
	SessionID     string     `json:"session_id" gorm:"size:64;uniqueIndex;not null"`
	TargetID      uint       `json:"target_id" gorm:"not null;index"`
	Target        Target     `json:"target" gorm:"foreignKey:TargetID"`
	Status        string     `json:"status" gorm:"size:20;default:'pending'"`
	ChallengeSeen bool       `json:"challenge_seen"`
	SolveStatus   string     `json:"solve_status" gorm:"size:20"` // solved/exhausted, empty when no challenge appeared
	SolveAttempts int        `json:"solve_attempts"`
	SolveMs       int64      `json:"solve_ms"`
	ReviewCount   int        `json:"review_count"`
	ReportPath    string     `json:"report_path" gorm:"size:500"`
	ErrorMessage  string     `json:"error_message" gorm:"type:text"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	DurationMs    int64      `json:"duration_ms"`
	UserID        uint       `json:"user_id" gorm:"not null"`
	User          User       `json:"user" gorm:"foreignKey:UserID"`
}

// SolveAttempt is the persisted diagnostic record of one slider attempt,
// flattened from the in-memory attempt record for offline analysis.
type SolveAttempt struct {
	BaseModel
	CrawlRunID    uint     `json:"crawl_run_id" gorm:"not null;index"`
	CrawlRun      CrawlRun `json:"-" gorm:"foreignKey:CrawlRunID"`
	AttemptIndex  int      `json:"attempt_index"`
	Outcome       string   `json:"outcome" gorm:"size:20"`
	AbortReason   string   `json:"abort_reason" gorm:"size:500"`
	DurationMs    int64    `json:"duration_ms"`
	FrameUnstable bool     `json:"frame_instability_detected"`
	TargetOffset  float64  `json:"target_offset"`
	WaypointCount int      `json:"waypoint_count"`
	TrackWidth    float64  `json:"track_width"`
}

// Review is one review extracted from a crawled page.
type Review struct {
	BaseModel
	CrawlRunID uint    `json:"crawl_run_id" gorm:"not null;index"`
	TargetID   uint    `json:"target_id" gorm:"not null;index"`
	Author     string  `json:"author" gorm:"size:200"`
	Rating     float64 `json:"rating"`
	Title      string  `json:"title" gorm:"size:500"`
	Body       string  `json:"body" gorm:"type:text"`
	Date       string  `json:"date" gorm:"size:100"`
}

// PricingPlan is one pricing table entry extracted from a crawled page.
type PricingPlan struct {
	BaseModel
	CrawlRunID uint   `json:"crawl_run_id" gorm:"not null;index"`
	TargetID   uint   `json:"target_id" gorm:"not null;index"`
	Name       string `json:"name" gorm:"size:200"`
	Price      string `json:"price" gorm:"size:100"`
}
