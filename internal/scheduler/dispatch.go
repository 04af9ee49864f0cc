package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/metrics"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/suppression"
	"github.com/zivohealth/reminders/internal/timezone"
)

// runDispatch implements scan_and_dispatch (spec §4.4.2): pick due pending
// one-time/generated occurrences, apply suppression, and publish dispatch
// events to the output queue.
func (s *Scheduler) runDispatch(ctx context.Context) error {
	now := time.Now().UTC()

	due, err := s.reminders.GetDueReminders(now, s.batchSize)
	if err != nil {
		return err
	}

	for i := range due {
		s.dispatchOne(ctx, &due[i], now)
	}
	return nil
}

func (s *Scheduler) dispatchOne(ctx context.Context, reminder *models.Reminder, now time.Time) {
	if s.shouldSuppress(ctx, reminder, now) {
		if err := s.reminders.MarkSkipped(reminder.ID); err != nil {
			log.Printf("[Scheduler] failed to mark reminder %s skipped: %v", reminder.ID, err)
		}
		metrics.RemindersSuppressed.Inc()
		return
	}

	event := broker.DispatchEvent{
		UserID:       reminder.UserID,
		ReminderID:   reminder.ID.String(),
		ReminderType: reminder.ReminderType,
		Payload:      dispatchPayload(reminder),
		Timestamp:    reminder.ReminderTime.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Scheduler] failed to marshal dispatch event for %s: %v", reminder.ID, err)
		s.markFailed(reminder.ID)
		return
	}

	if err := s.broker.PublishOutput(ctx, body); err != nil {
		log.Printf("[Scheduler] failed to publish dispatch event for %s: %v", reminder.ID, err)
		metrics.BrokerPublishFailures.Inc()
		s.markFailed(reminder.ID)
		return
	}

	if err := s.reminders.MarkQueued(reminder.ID); err != nil {
		log.Printf("[Scheduler] failed to mark reminder %s queued: %v", reminder.ID, err)
		return
	}
	metrics.RemindersDispatched.Inc()
}

func (s *Scheduler) markFailed(id uuid.UUID) {
	if err := s.reminders.MarkFailed(id); err != nil {
		log.Printf("[Scheduler] failed to mark reminder %s failed: %v", id, err)
	}
}

func dispatchPayload(reminder *models.Reminder) map[string]interface{} {
	payload := map[string]interface{}{}
	for k, v := range reminder.Payload {
		payload[k] = v
	}
	if reminder.Title != "" {
		payload["title"] = reminder.Title
	}
	if reminder.Message != "" {
		payload["message"] = reminder.Message
	}
	return payload
}

// shouldSuppress applies the nutrition-log suppression rule (spec §4.4.4).
func (s *Scheduler) shouldSuppress(ctx context.Context, reminder *models.Reminder, now time.Time) bool {
	if reminder.ReminderType != "nutrition_log" {
		return false
	}

	tz := timezone.Resolve(ctx, reminder, s.profiles, s.defaultTZ)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	localDate := reminder.ReminderTime.In(loc)

	meal := mealKey(reminder.Payload)
	return suppression.ShouldSuppress(ctx, s.suppression, reminder.UserID, localDate, meal)
}

func mealKey(payload models.JSONMap) string {
	if payload == nil {
		return ""
	}
	if meal, ok := payload["meal"].(string); ok && meal != "" {
		return meal
	}
	if ctxVal, ok := payload["context"].(map[string]interface{}); ok {
		if key, ok := ctxVal["key"].(string); ok {
			return key
		}
	}
	return ""
}
