package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/metrics"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/recurrence"
	"gorm.io/gorm"
)

// runExpansion implements generate_recurring (spec §4.4.1): materialize one
// concrete occurrence from each due recurring template, then advance the
// template's next_occurrence (or retire it).
func (s *Scheduler) runExpansion(ctx context.Context) error {
	now := time.Now().UTC()

	templates, err := s.reminders.GetDueRecurringReminders(now, s.batchSize)
	if err != nil {
		return err
	}

	for i := range templates {
		template := templates[i]
		if err := s.expandOne(&template, now); err != nil {
			continue
		}
	}
	return nil
}

func (s *Scheduler) expandOne(template *models.Reminder, now time.Time) error {
	return s.reminders.WithTransaction(func(tx *gorm.DB) error {
		occurrenceNumber := template.OccurrenceCount + 1

		occurrence := *template
		occurrence.ID = uuid.UUID{}
		occurrence.ReminderTime = *template.NextOccurrence
		occurrence.IsGenerated = true
		occurrence.IsRecurring = false
		occurrence.ParentReminderID = &template.ID
		occurrence.OccurrenceNumber = occurrenceNumber
		occurrence.Status = models.StatusPending
		occurrence.ExternalID = template.ChildExternalID(occurrenceNumber)
		occurrence.RecurrencePattern = nil
		occurrence.NextOccurrence = nil
		occurrence.LastOccurrence = nil
		occurrence.CreatedAt = time.Time{}
		occurrence.UpdatedAt = time.Time{}

		if err := tx.Create(&occurrence).Error; err != nil {
			return err
		}

		template.LastOccurrence = template.NextOccurrence
		template.OccurrenceCount = occurrenceNumber

		next, ok := recurrence.NextAfter(template.RecurrencePattern, *template.LastOccurrence, now)
		expired := !ok
		if ok && template.EndDate != nil && !template.EndDate.After(next) {
			expired = true
		}
		if template.MaxOccurrences != nil && template.OccurrenceCount >= *template.MaxOccurrences {
			expired = true
		}

		if expired {
			template.IsActive = false
			template.NextOccurrence = nil
			template.Status = models.StatusProcessed
			metrics.RemindersExpired.Inc()
		} else {
			template.NextOccurrence = &next
		}

		metrics.RemindersExpanded.Inc()
		return tx.Save(template).Error
	})
}
