// Package ingestion implements the Ingestion Worker (spec §4.3): it
// consumes reminder-creation events from the input queue, validates and
// normalizes them, and upserts into the Store using external_id for
// idempotency.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/recurrence"
	"github.com/zivohealth/reminders/internal/repository"
)

var ErrMissingStartDate = errors.New("ingestion: recurring reminder requires start_date")

// Worker drains the input queue, building Reminder rows the same way a
// direct API call would.
type Worker struct {
	conn      *broker.Conn
	reminders *repository.ReminderRepository
}

func NewWorker(conn *broker.Conn, reminders *repository.ReminderRepository) *Worker {
	return &Worker{conn: conn, reminders: reminders}
}

// Run consumes deliveries until ctx is cancelled. Errors from individual
// messages are logged, not propagated: per spec §4.3, the task does not
// re-queue on arbitrary failures to avoid retry storms for poison messages.
func (w *Worker) Run(ctx context.Context, consumerTag string) error {
	deliveries, err := w.conn.ConsumeInput(consumerTag)
	if err != nil {
		return fmt.Errorf("ingestion: failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	var event broker.CreationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("[IngestionWorker] malformed creation event, dropping: %v", err)
		d.Ack(false)
		return
	}

	reminder, err := buildReminder(event)
	if err != nil {
		log.Printf("[IngestionWorker] rejected creation event for user=%s: %v", event.UserID, err)
		d.Ack(false)
		return
	}

	if _, err := w.reminders.CreateReminder(reminder); err != nil {
		log.Printf("[IngestionWorker] failed to upsert reminder for user=%s: %v", event.UserID, err)
		// Late-ack only after a successful upsert; nack without requeue so a
		// transient store failure doesn't spin forever against one message.
		d.Nack(false, false)
		return
	}

	// Late-ack: acknowledged only now that the row is safely upserted
	// (spec §5). Redelivery before this point is safe because external_id
	// dedupes the insert.
	d.Ack(false)
}

func buildReminder(event broker.CreationEvent) (*models.Reminder, error) {
	isRecurring := len(event.RecurrencePattern) > 0

	if isRecurring && event.StartDate == nil {
		return nil, ErrMissingStartDate
	}

	externalID := event.ExternalID
	if externalID == "" {
		externalID = synthesizeExternalID(event)
	}

	reminder := &models.Reminder{
		UserID:         event.UserID,
		ReminderType:   event.ReminderType,
		Title:          event.Title,
		Message:        event.Message,
		Payload:        models.JSONMap(event.Payload),
		ExternalID:     &externalID,
		IsRecurring:    isRecurring,
		StartDate:      event.StartDate,
		EndDate:        event.EndDate,
		MaxOccurrences: event.MaxOccurrences,
		Timezone:       event.Timezone,
		IsActive:       true,
		Status:         models.StatusPending,
	}

	if isRecurring {
		var pattern models.RecurrencePattern
		raw, err := json.Marshal(event.RecurrencePattern)
		if err != nil {
			return nil, fmt.Errorf("ingestion: invalid recurrence_pattern: %w", err)
		}
		if err := json.Unmarshal(raw, &pattern); err != nil {
			return nil, fmt.Errorf("ingestion: invalid recurrence_pattern: %w", err)
		}
		if err := recurrence.Validate(&pattern); err != nil {
			return nil, fmt.Errorf("ingestion: invalid recurrence_pattern: %w", err)
		}
		reminder.RecurrencePattern = &pattern
		start := event.StartDate.UTC()
		reminder.ReminderTime = start
		reminder.NextOccurrence = &start
	} else {
		if event.ReminderTime == nil {
			return nil, errors.New("ingestion: one-time reminder requires reminder_time")
		}
		utc := event.ReminderTime.UTC()
		reminder.ReminderTime = utc
	}

	return reminder, nil
}

// synthesizeExternalID derives a deterministic external_id when the
// caller does not supply one, per spec §7's contract guarantee
// ("services that accept external callers should treat missing
// external_id by synthesizing a deterministic one").
func synthesizeExternalID(event broker.CreationEvent) string {
	anchor := time.Now().UTC()
	if event.ReminderTime != nil {
		anchor = *event.ReminderTime
	} else if event.StartDate != nil {
		anchor = *event.StartDate
	}
	return fmt.Sprintf("%s:%s:%d", event.UserID, event.ReminderType, anchor.Unix())
}
