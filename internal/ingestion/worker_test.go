package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/models"
)

func TestBuildReminder_OneTime(t *testing.T) {
	reminderTime := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := broker.CreationEvent{
		UserID:       "user-1",
		ReminderType: "medication",
		Title:        "Take pills",
		ReminderTime: &reminderTime,
	}

	r, err := buildReminder(event)
	require.NoError(t, err)
	assert.False(t, r.IsRecurring)
	assert.Equal(t, reminderTime, r.ReminderTime)
	assert.Equal(t, models.StatusPending, r.Status)
	require.NotNil(t, r.ExternalID)
	assert.Equal(t, "user-1:medication:1748768400", *r.ExternalID)
}

func TestBuildReminder_OneTime_MissingReminderTime(t *testing.T) {
	event := broker.CreationEvent{UserID: "user-1", ReminderType: "medication"}
	_, err := buildReminder(event)
	assert.Error(t, err)
}

func TestBuildReminder_Recurring_RequiresStartDate(t *testing.T) {
	event := broker.CreationEvent{
		UserID:            "user-1",
		ReminderType:      "medication",
		RecurrencePattern: map[string]interface{}{"type": "daily"},
	}
	_, err := buildReminder(event)
	assert.ErrorIs(t, err, ErrMissingStartDate)
}

func TestBuildReminder_Recurring(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := broker.CreationEvent{
		UserID:       "user-1",
		ReminderType: "medication",
		StartDate:    &start,
		RecurrencePattern: map[string]interface{}{
			"type":     "daily",
			"interval": 1,
		},
		ExternalID: "explicit-id",
	}

	r, err := buildReminder(event)
	require.NoError(t, err)
	assert.True(t, r.IsRecurring)
	assert.Equal(t, "explicit-id", *r.ExternalID)
	require.NotNil(t, r.RecurrencePattern)
	assert.Equal(t, models.RecurrenceDaily, r.RecurrencePattern.Type)
	assert.Equal(t, start, r.ReminderTime)
	require.NotNil(t, r.NextOccurrence)
	assert.Equal(t, start, *r.NextOccurrence)
}

func TestBuildReminder_Recurring_InvalidPattern(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := broker.CreationEvent{
		UserID:            "user-1",
		ReminderType:      "medication",
		StartDate:         &start,
		RecurrencePattern: map[string]interface{}{"type": "weekly", "weekdays": []int{9}},
	}
	_, err := buildReminder(event)
	assert.Error(t, err)
}

func TestSynthesizeExternalID_PrefersReminderTime(t *testing.T) {
	reminderTime := time.Unix(1000, 0).UTC()
	startDate := time.Unix(2000, 0).UTC()
	event := broker.CreationEvent{
		UserID:       "user-1",
		ReminderType: "weigh_in",
		ReminderTime: &reminderTime,
		StartDate:    &startDate,
	}
	assert.Equal(t, "user-1:weigh_in:1000", synthesizeExternalID(event))
}

func TestSynthesizeExternalID_FallsBackToStartDate(t *testing.T) {
	startDate := time.Unix(2000, 0).UTC()
	event := broker.CreationEvent{
		UserID:       "user-1",
		ReminderType: "weigh_in",
		StartDate:    &startDate,
	}
	assert.Equal(t, "user-1:weigh_in:2000", synthesizeExternalID(event))
}
