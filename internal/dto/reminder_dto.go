package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/models"
)

// CreateReminderRequest is the reminder-create field set (spec §4.3): a
// one-time reminder carries ReminderTime; a recurring one carries
// RecurrencePattern + StartDate.
type CreateReminderRequest struct {
	UserID            string                 `json:"user_id" binding:"required"`
	ReminderType      string                 `json:"reminder_type" binding:"required"`
	Title             string                 `json:"title,omitempty"`
	Message           string                 `json:"message,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	ReminderTime      *time.Time             `json:"reminder_time,omitempty"`
	RecurrencePattern map[string]interface{} `json:"recurrence_pattern,omitempty"`
	StartDate         *time.Time             `json:"start_date,omitempty"`
	EndDate           *time.Time             `json:"end_date,omitempty"`
	MaxOccurrences    *int                   `json:"max_occurrences,omitempty"`
	Timezone          string                 `json:"timezone,omitempty"`
	ExternalID        string                 `json:"external_id,omitempty"`
}

// CreateReminderResponse is returned immediately; the row is created
// asynchronously by the Ingestion Worker (spec §6.1).
type CreateReminderResponse struct {
	ExternalID string    `json:"external_id"`
	QueuedAt   time.Time `json:"queued_at"`
}

// UpdateReminderRequest carries partial reminder fields, including
// recurrence (spec §6.1 PATCH).
type UpdateReminderRequest struct {
	Title             *string                `json:"title,omitempty"`
	Message           *string                `json:"message,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	ReminderTime      *time.Time             `json:"reminder_time,omitempty"`
	RecurrencePattern map[string]interface{} `json:"recurrence_pattern,omitempty"`
	EndDate           *time.Time             `json:"end_date,omitempty"`
	MaxOccurrences    *int                   `json:"max_occurrences,omitempty"`
	Timezone          *string                `json:"timezone,omitempty"`
	IsActive          *bool                  `json:"is_active,omitempty"`
}

// ReminderDTO is the read shape of spec §6.1: all §3 fields plus the
// computed booleans and timestamps.
type ReminderDTO struct {
	ID                uuid.UUID              `json:"id"`
	UserID            string                 `json:"user_id"`
	ReminderType      string                 `json:"reminder_type"`
	Title             string                 `json:"title,omitempty"`
	Message           string                 `json:"message,omitempty"`
	Payload           map[string]interface{} `json:"payload,omitempty"`
	ReminderTime      time.Time              `json:"reminder_time"`
	Status            string                 `json:"status"`
	ExternalID        string                 `json:"external_id,omitempty"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	IsRecurring       bool                   `json:"is_recurring"`
	IsGenerated       bool                   `json:"is_generated"`
	IsActive          bool                   `json:"is_active"`
	ParentReminderID  *uuid.UUID             `json:"parent_reminder_id,omitempty"`
	OccurrenceNumber  int                    `json:"occurrence_number,omitempty"`
	StartDate         *time.Time             `json:"start_date,omitempty"`
	EndDate           *time.Time             `json:"end_date,omitempty"`
	MaxOccurrences    *int                   `json:"max_occurrences,omitempty"`
	Timezone          string                 `json:"timezone,omitempty"`
	LastOccurrence    *time.Time             `json:"last_occurrence,omitempty"`
	NextOccurrence    *time.Time             `json:"next_occurrence,omitempty"`
	OccurrenceCount   int                    `json:"occurrence_count"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func ReminderToDTO(r *models.Reminder) ReminderDTO {
	externalID := ""
	if r.ExternalID != nil {
		externalID = *r.ExternalID
	}
	return ReminderDTO{
		ID:                r.ID,
		UserID:            r.UserID,
		ReminderType:      r.ReminderType,
		Title:             r.Title,
		Message:           r.Message,
		Payload:           r.Payload,
		ReminderTime:      r.ReminderTime,
		Status:            string(r.Status),
		ExternalID:        externalID,
		RecurrencePattern: r.RecurrencePattern,
		IsRecurring:       r.IsRecurring,
		IsGenerated:       r.IsGenerated,
		IsActive:          r.IsActive,
		ParentReminderID:  r.ParentReminderID,
		OccurrenceNumber:  r.OccurrenceNumber,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		MaxOccurrences:    r.MaxOccurrences,
		Timezone:          r.Timezone,
		LastOccurrence:    r.LastOccurrence,
		NextOccurrence:    r.NextOccurrence,
		OccurrenceCount:   r.OccurrenceCount,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func RemindersToDTO(reminders []models.Reminder) []ReminderDTO {
	dtos := make([]ReminderDTO, len(reminders))
	for i := range reminders {
		dtos[i] = ReminderToDTO(&reminders[i])
	}
	return dtos
}
