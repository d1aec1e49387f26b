package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"reviewradar/internal/config"
	"reviewradar/internal/crawler"
	"reviewradar/internal/export"
	"reviewradar/internal/models"
	"reviewradar/pkg/database"
)

// CrawlService owns run lifecycle: row creation, background execution,
// persistence of results and progress broadcasting.
type CrawlService struct {
	cfg     *config.Config
	crawler *crawler.Crawler

	mu      sync.Mutex
	running map[uint]struct{} // target IDs with a run in flight
}

var GlobalCrawl *CrawlService

func InitCrawlService(cfg *config.Config) {
	GlobalCrawl = &CrawlService{
		cfg:     cfg,
		crawler: crawler.New(cfg),
		running: make(map[uint]struct{}),
	}
	log.Println("Crawl service initialized")
}

// StartRun creates a pending run for the target and executes it in the
// background. One run per target at a time.
func (s *CrawlService) StartRun(target *models.Target, userID uint) (*models.CrawlRun, error) {
	s.mu.Lock()
	if _, busy := s.running[target.ID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("target %d already has a run in flight", target.ID)
	}
	s.running[target.ID] = struct{}{}
	s.mu.Unlock()

	run := &models.CrawlRun{
		TargetID:  target.ID,
		Status:    models.RunStatusPending,
		StartTime: time.Now(),
		UserID:    userID,
	}

	if err := database.DB.Create(run).Error; err != nil {
		s.release(target.ID)
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	go s.executeRun(run, target)

	return run, nil
}

func (s *CrawlService) release(targetID uint) {
	s.mu.Lock()
	delete(s.running, targetID)
	s.mu.Unlock()
}

func (s *CrawlService) executeRun(run *models.CrawlRun, target *models.Target) {
	defer s.release(target.ID)

	run.Status = models.RunStatusRunning
	database.DB.Save(run)

	GlobalProgress.Broadcast(ProgressEvent{
		RunID: run.ID, TargetID: target.ID, Stage: "started",
		Message: fmt.Sprintf("Crawling %s", target.Name),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	outcome, err := s.crawler.Crawl(ctx, target)
	run.SessionID = outcome.SessionID
	run.ChallengeSeen = outcome.ChallengeSeen

	if outcome.SolveResult != nil {
		run.SolveStatus = outcome.SolveResult.Status.String()
		run.SolveAttempts = len(outcome.SolveResult.Attempts)
		run.SolveMs = outcome.SolveResult.TotalDurationMs
		s.persistAttempts(run, outcome)
	}

	now := time.Now()
	run.EndTime = &now
	run.DurationMs = now.Sub(run.StartTime).Milliseconds()

	if err != nil {
		s.finishFailed(run, target, outcome, err)
		return
	}

	s.persistPage(run, target, outcome)

	report := &export.RunReport{
		SessionID:     outcome.SessionID,
		TargetName:    target.Name,
		TargetURL:     target.URL,
		CrawledAt:     run.StartTime,
		ChallengeSeen: run.ChallengeSeen,
		SolveStatus:   run.SolveStatus,
		SolveAttempts: run.SolveAttempts,
		Page:          outcome.Page,
	}
	if path, err := export.WriteJSON(s.cfg.Crawler.OutputDir, report); err != nil {
		log.Printf("⚠️ Failed to write JSON report for run %d: %v", run.ID, err)
	} else {
		run.ReportPath = path
	}
	if _, err := export.WriteMarkdown(s.cfg.Crawler.OutputDir, report); err != nil {
		log.Printf("⚠️ Failed to write markdown report for run %d: %v", run.ID, err)
	}

	run.Status = models.RunStatusCompleted
	database.DB.Save(run)

	GlobalProgress.Broadcast(ProgressEvent{
		SessionID: run.SessionID, RunID: run.ID, TargetID: target.ID, Stage: "completed",
		Message: fmt.Sprintf("Extracted %d reviews", run.ReviewCount),
	})
	log.Printf("✅ Run %d completed: %d reviews from %s", run.ID, run.ReviewCount, target.Name)
}

func (s *CrawlService) finishFailed(run *models.CrawlRun, target *models.Target, outcome *crawler.Outcome, err error) {
	run.ErrorMessage = err.Error()
	if outcome != nil && outcome.FinalState == crawler.PageBlocked {
		run.Status = models.RunStatusBlocked
	} else {
		run.Status = models.RunStatusFailed
	}
	database.DB.Save(run)

	GlobalProgress.Broadcast(ProgressEvent{
		SessionID: run.SessionID, RunID: run.ID, TargetID: target.ID, Stage: run.Status,
		Message: err.Error(),
	})
	log.Printf("❌ Run %d %s: %v", run.ID, run.Status, err)
}

// persistAttempts flattens the solver's attempt records into rows.
func (s *CrawlService) persistAttempts(run *models.CrawlRun, outcome *crawler.Outcome) {
	for _, rec := range outcome.SolveResult.Attempts {
		row := models.SolveAttempt{
			CrawlRunID:    run.ID,
			AttemptIndex:  rec.AttemptIndex,
			Outcome:       rec.Outcome.String(),
			AbortReason:   rec.AbortReason,
			DurationMs:    rec.DurationMs,
			FrameUnstable: rec.FrameUnstable,
			TargetOffset:  rec.Plan.Target,
			WaypointCount: len(rec.Plan.Waypoints),
			TrackWidth:    rec.Geometry.ContainerWidth,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("⚠️ Failed to persist solve attempt %d of run %d: %v", rec.AttemptIndex, run.ID, err)
		}
	}
}

func (s *CrawlService) persistPage(run *models.CrawlRun, target *models.Target, outcome *crawler.Outcome) {
	if outcome.Page == nil {
		return
	}

	for _, review := range outcome.Page.Reviews {
		row := models.Review{
			CrawlRunID: run.ID,
			TargetID:   target.ID,
			Author:     review.Author,
			Rating:     review.Rating,
			Title:      review.Title,
			Body:       review.Body,
			Date:       review.Date,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("⚠️ Failed to persist review for run %d: %v", run.ID, err)
			continue
		}
		run.ReviewCount++
	}

	for _, plan := range outcome.Page.Pricing {
		row := models.PricingPlan{
			CrawlRunID: run.ID,
			TargetID:   target.ID,
			Name:       plan.Name,
			Price:      plan.Price,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("⚠️ Failed to persist pricing plan for run %d: %v", run.ID, err)
		}
	}
}
