package services

import (
	"sync"
	"testing"

	"reviewradar/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *SchedulerService {
	return &SchedulerService{
		cron:    cron.New(),
		entries: make(map[uint]cron.EntryID),
	}
}

func scheduledTarget(id uint, expr string) models.Target {
	return models.Target{
		BaseModel:      models.BaseModel{ID: id},
		Name:           "t",
		URL:            "https://reviews.example.com/t",
		CronExpression: expr,
		Status:         1,
	}
}

func TestSchedulerAddReplaceRemove(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddTargetSchedule(scheduledTarget(1, "@hourly")))
	assert.Len(t, s.cron.Entries(), 1)

	// Re-adding the same target replaces its entry, never duplicates it.
	require.NoError(t, s.AddTargetSchedule(scheduledTarget(1, "@daily")))
	assert.Len(t, s.cron.Entries(), 1)

	s.RemoveTargetSchedule(1)
	assert.Empty(t, s.cron.Entries())

	// Removing an unknown target is a no-op.
	s.RemoveTargetSchedule(99)
}

func TestSchedulerRejectsInvalidExpression(t *testing.T) {
	s := newTestScheduler()

	assert.Error(t, s.AddTargetSchedule(scheduledTarget(2, "not a cron expr")))
	assert.Empty(t, s.cron.Entries())

	// Empty expression means manual runs only, not an error.
	assert.NoError(t, s.AddTargetSchedule(scheduledTarget(3, "")))
	assert.Empty(t, s.cron.Entries())
}

func TestSchedulerConcurrentAddRemove(t *testing.T) {
	// Schedules are added and removed from concurrent API requests; this
	// must not corrupt the entry map (fails under -race without locking).
	s := newTestScheduler()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		id := uint(i%4 + 1)

		wg.Add(2)
		go func(id uint) {
			defer wg.Done()
			_ = s.AddTargetSchedule(scheduledTarget(id, "@every 1h"))
		}(id)
		go func(id uint) {
			defer wg.Done()
			s.RemoveTargetSchedule(id)
		}(id)
	}
	wg.Wait()

	// Whatever survived the interleaving, every tracked entry must still be
	// live in cron and the counts must agree.
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.cron.Entries(), len(s.entries))
	for _, entryID := range s.entries {
		assert.NotZero(t, s.cron.Entry(entryID).ID)
	}
}
