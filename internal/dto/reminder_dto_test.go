package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/zivohealth/reminders/internal/models"
)

func TestReminderToDTO(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	external := "user-1:medication:1748768400"

	r := models.Reminder{
		ID:              uuid.New(),
		UserID:          "user-1",
		ReminderType:    "medication",
		Title:           "Take pills",
		ReminderTime:    now,
		Status:          models.StatusPending,
		ExternalID:      &external,
		IsRecurring:     true,
		OccurrenceCount: 2,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	got := ReminderToDTO(&r)

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, external, got.ExternalID)
	assert.True(t, got.IsRecurring)
	assert.Equal(t, 2, got.OccurrenceCount)
}

func TestReminderToDTO_NilExternalID(t *testing.T) {
	r := models.Reminder{ID: uuid.New(), UserID: "user-1"}
	got := ReminderToDTO(&r)
	assert.Empty(t, got.ExternalID)
}

func TestRemindersToDTO(t *testing.T) {
	reminders := []models.Reminder{
		{ID: uuid.New(), UserID: "a"},
		{ID: uuid.New(), UserID: "b"},
	}
	got := RemindersToDTO(reminders)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].UserID)
	assert.Equal(t, "b", got[1].UserID)
}
