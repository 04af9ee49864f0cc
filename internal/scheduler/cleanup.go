package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/zivohealth/reminders/internal/metrics"
	"github.com/zivohealth/reminders/internal/models"
)

// runCleanup implements cleanup_expired_recurring (spec §4.4.3): find active
// reminders whose end_date or max_occurrences bound has been reached and
// deactivate them. The end_date cutoff is pushed back by cleanupGrace so a
// reminder isn't retired the instant its end_date passes (spec §D's
// grace-window resolution); the max_occurrences bound has no grace.
func (s *Scheduler) runCleanup(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.cleanupGrace)

	expired, err := s.reminders.GetExpiredActive(cutoff, s.batchSize)
	if err != nil {
		return err
	}

	for i := range expired {
		reminder := &expired[i]
		reminder.IsActive = false
		if reminder.IsRecurring {
			reminder.NextOccurrence = nil
			reminder.Status = models.StatusProcessed
		}
		if err := s.reminders.UpdateReminder(reminder); err != nil {
			log.Printf("[Scheduler] failed to deactivate expired reminder %s: %v", reminder.ID, err)
			continue
		}
		metrics.RemindersExpired.Inc()
	}
	return nil
}
