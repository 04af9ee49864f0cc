package resolver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/graphql/middleware"
	"github.com/zivohealth/reminders/internal/graphql/model"
	"github.com/zivohealth/reminders/internal/models"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
)

// CreateReminder enqueues a reminder-creation event, matching the REST
// endpoint's asynchronous-creation semantics (spec §4.3).
func (r *Resolver) CreateReminder(ctx context.Context, input model.CreateReminderInput) (*model.Reminder, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return nil, apperrors.ErrUnauthorized
	}

	event := broker.CreationEvent{
		UserID:       input.UserID,
		ReminderType: input.ReminderType,
		Payload:      input.Payload,
		ReminderTime: input.ReminderTime,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Message != nil {
		event.Message = *input.Message
	}
	if input.MaxOccurrences != nil {
		event.MaxOccurrences = input.MaxOccurrences
	}
	if input.Timezone != nil {
		event.Timezone = *input.Timezone
	}
	if input.ExternalID != nil {
		event.ExternalID = *input.ExternalID
	}
	if input.RecurrencePattern != nil {
		pattern := model.RecurrencePatternToModel(input.RecurrencePattern)
		raw, err := json.Marshal(pattern)
		if err != nil {
			return nil, apperrors.ValidationError("invalid recurrence pattern")
		}
		var asMap map[string]interface{}
		if err := json.Unmarshal(raw, &asMap); err != nil {
			return nil, apperrors.ValidationError("invalid recurrence pattern")
		}
		event.RecurrencePattern = asMap
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, apperrors.ErrInternalError
	}
	if err := r.Broker.PublishInput(ctx, body); err != nil {
		return nil, apperrors.BrokerPublishError(err)
	}

	// The row doesn't exist yet (creation is asynchronous); return a
	// preview reflecting the submitted fields with a Pending status.
	preview := &models.Reminder{
		UserID:       event.UserID,
		ReminderType: event.ReminderType,
		Title:        event.Title,
		Message:      event.Message,
		Payload:      models.JSONMap(event.Payload),
		Status:       models.StatusPending,
		IsRecurring:  input.RecurrencePattern != nil,
		EndDate:      event.EndDate,
		Timezone:     event.Timezone,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if event.ReminderTime != nil {
		preview.ReminderTime = *event.ReminderTime
	} else if event.StartDate != nil {
		preview.ReminderTime = *event.StartDate
	}
	if event.ExternalID != "" {
		preview.ExternalID = &event.ExternalID
	}

	return model.ReminderFromModel(preview), nil
}

// UpdateReminder applies a partial update directly against the Store
// (spec §6.1 PATCH; unlike creation, updates are synchronous).
func (r *Resolver) UpdateReminder(ctx context.Context, id uuid.UUID, input model.UpdateReminderInput) (*model.Reminder, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return nil, apperrors.ErrUnauthorized
	}

	reminder, err := r.Reminders.GetReminder(id)
	if err != nil {
		return nil, apperrors.ErrReminderNotFound
	}

	if input.Title != nil {
		reminder.Title = *input.Title
	}
	if input.Message != nil {
		reminder.Message = *input.Message
	}
	if input.Payload != nil {
		reminder.Payload = models.JSONMap(input.Payload)
	}
	if input.ReminderTime != nil {
		reminder.ReminderTime = input.ReminderTime.UTC()
	}
	if input.EndDate != nil {
		reminder.EndDate = input.EndDate
	}
	if input.MaxOccurrences != nil {
		reminder.MaxOccurrences = input.MaxOccurrences
	}
	if input.IsActive != nil {
		reminder.IsActive = *input.IsActive
	}
	if input.RecurrencePattern != nil {
		reminder.RecurrencePattern = model.RecurrencePatternToModel(input.RecurrencePattern)
	}

	if err := r.Reminders.UpdateReminder(reminder); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	r.broadcastReminderChange(reminder.UserID, model.ChangeActionUpdated, reminder)
	return model.ReminderFromModel(reminder), nil
}

// DeleteReminder hard-deletes a reminder row (spec §6.1 DELETE).
func (r *Resolver) DeleteReminder(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return false, apperrors.ErrUnauthorized
	}

	reminder, err := r.Reminders.GetReminder(id)
	if err != nil {
		return false, apperrors.ErrReminderNotFound
	}

	if err := r.Reminders.DeleteReminder(id); err != nil {
		return false, apperrors.TransientStoreError(err)
	}

	r.broadcastReminderDelete(reminder.UserID, id)
	return true, nil
}

// AcknowledgeReminder marks a reminder Acknowledged (spec §6.1 POST
// /reminders/{id}/ack).
func (r *Resolver) AcknowledgeReminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return nil, apperrors.ErrUnauthorized
	}

	if err := r.Reminders.MarkAcknowledged(id); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	reminder, err := r.Reminders.GetReminder(id)
	if err != nil {
		return nil, apperrors.ErrReminderNotFound
	}

	r.broadcastReminderChange(reminder.UserID, model.ChangeActionUpdated, reminder)
	return model.ReminderFromModel(reminder), nil
}

// RegisterDeviceToken upserts a push token for (user_id, platform) (spec
// §6.1 POST /reminders/devices).
func (r *Resolver) RegisterDeviceToken(ctx context.Context, input model.RegisterDeviceTokenInput) (*model.DeviceToken, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return nil, apperrors.ErrUnauthorized
	}

	token := &models.DeviceToken{
		UserID:   input.UserID,
		Platform: model.PlatformToModel(input.Platform),
		FCMToken: input.FCMToken,
	}
	if err := r.Devices.UpsertDeviceToken(token); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	return model.DeviceTokenFromModel(token), nil
}

func (r *Resolver) broadcastReminderChange(userID string, action model.ChangeAction, reminder *models.Reminder) {
	if r.Hub == nil {
		return
	}
	r.Hub.BroadcastToUser(userID, &model.ReminderChangeEvent{
		TypeName:   "ReminderChangeEvent",
		Action:     action,
		Reminder:   model.ReminderFromModel(reminder),
		ReminderID: reminder.ID,
		Timestamp:  time.Now().UTC(),
	})
}

func (r *Resolver) broadcastReminderDelete(userID string, reminderID uuid.UUID) {
	if r.Hub == nil {
		return
	}
	r.Hub.BroadcastToUser(userID, &model.ReminderChangeEvent{
		TypeName:   "ReminderChangeEvent",
		Action:     model.ChangeActionDeleted,
		ReminderID: reminderID,
		Timestamp:  time.Now().UTC(),
	})
}
