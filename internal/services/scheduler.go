package services

import (
	"log"
	"sync"

	"reviewradar/internal/models"
	"reviewradar/pkg/database"

	"github.com/robfig/cron/v3"
)

type SchedulerService struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[uint]cron.EntryID // target ID -> cron entry
}

var GlobalScheduler *SchedulerService

func InitScheduler() error {
	GlobalScheduler = &SchedulerService{
		cron:    cron.New(),
		entries: make(map[uint]cron.EntryID),
	}

	// Load existing scheduled targets
	err := GlobalScheduler.loadScheduledTargets()
	if err != nil {
		return err
	}

	// Start the cron scheduler
	GlobalScheduler.cron.Start()
	log.Println("Scheduler service initialized")

	return nil
}

func (s *SchedulerService) loadScheduledTargets() error {
	var targets []models.Target
	err := database.DB.
		Where("cron_expression != '' AND cron_expression IS NOT NULL AND status = ?", 1).
		Find(&targets).Error
	if err != nil {
		return err
	}

	for _, target := range targets {
		if err := s.AddTargetSchedule(target); err != nil {
			log.Printf("Failed to add schedule for target %d: %v", target.ID, err)
		}
	}

	log.Printf("Loaded %d scheduled targets", len(targets))
	return nil
}

func (s *SchedulerService) AddTargetSchedule(target models.Target) error {
	if target.CronExpression == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace any existing schedule for this target
	s.removeLocked(target.ID)

	entryID, err := s.cron.AddFunc(target.CronExpression, func() {
		s.executeScheduledCrawl(target.ID)
	})
	if err != nil {
		return err
	}

	s.entries[target.ID] = entryID
	log.Printf("Added schedule for target %d (entry %d): %s", target.ID, entryID, target.CronExpression)
	return nil
}

func (s *SchedulerService) RemoveTargetSchedule(targetID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(targetID)
}

// removeLocked drops a target's cron entry. Caller holds s.mu.
func (s *SchedulerService) removeLocked(targetID uint) {
	if entryID, ok := s.entries[targetID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, targetID)
		log.Printf("Removed schedule for target %d", targetID)
	}
}

func (s *SchedulerService) executeScheduledCrawl(targetID uint) {
	log.Printf("Executing scheduled crawl for target %d", targetID)

	var target models.Target
	err := database.DB.Where("id = ? AND status = ?", targetID, 1).First(&target).Error
	if err != nil {
		log.Printf("Failed to load target %d: %v", targetID, err)
		return
	}

	if GlobalCrawl == nil {
		log.Printf("Crawl service not available for scheduled execution")
		return
	}

	// Scheduled runs execute as the target owner
	run, err := GlobalCrawl.StartRun(&target, target.UserID)
	if err != nil {
		log.Printf("Failed to start scheduled run for target %d: %v", targetID, err)
		return
	}

	log.Printf("Started scheduled run %d for target %d", run.ID, targetID)
}

func (s *SchedulerService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		log.Println("Scheduler service stopped")
	}
}
