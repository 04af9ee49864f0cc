package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEligibleForExpansion(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	maxOcc := 3

	cases := []struct {
		name string
		r    Reminder
		want bool
	}{
		{"not recurring", Reminder{IsRecurring: false, IsActive: true, NextOccurrence: &past}, false},
		{"inactive", Reminder{IsRecurring: true, IsActive: false, NextOccurrence: &past}, false},
		{"no next occurrence", Reminder{IsRecurring: true, IsActive: true}, false},
		{"next occurrence in future", Reminder{IsRecurring: true, IsActive: true, NextOccurrence: &future}, false},
		{"due", Reminder{IsRecurring: true, IsActive: true, NextOccurrence: &past}, true},
		{"end date passed", Reminder{IsRecurring: true, IsActive: true, NextOccurrence: &past, EndDate: &past}, false},
		{"max occurrences reached", Reminder{IsRecurring: true, IsActive: true, NextOccurrence: &past, MaxOccurrences: &maxOcc, OccurrenceCount: 3}, false},
		{"max occurrences not reached", Reminder{IsRecurring: true, IsActive: true, NextOccurrence: &past, MaxOccurrences: &maxOcc, OccurrenceCount: 2}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.r.EligibleForExpansion(now))
		})
	}
}

func TestEligibleForDispatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		r    Reminder
		want bool
	}{
		{"pending one-time due", Reminder{Status: StatusPending, IsRecurring: false, ReminderTime: past}, true},
		{"pending but not yet due", Reminder{Status: StatusPending, IsRecurring: false, ReminderTime: future}, false},
		{"recurring template excluded", Reminder{Status: StatusPending, IsRecurring: true, ReminderTime: past}, false},
		{"already queued", Reminder{Status: StatusQueued, IsRecurring: false, ReminderTime: past}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.r.EligibleForDispatch(now))
		})
	}
}

func TestRowKindPredicates(t *testing.T) {
	parent := Reminder{}
	assert.True(t, parent.IsOneTime())
	assert.False(t, parent.IsTemplate())
	assert.False(t, parent.IsOccurrence())

	template := Reminder{IsRecurring: true}
	assert.False(t, template.IsOneTime())
	assert.True(t, template.IsTemplate())
	assert.False(t, template.IsOccurrence())

	id := parent.ID
	occurrence := Reminder{IsRecurring: false, IsGenerated: true, ParentReminderID: &id}
	assert.False(t, occurrence.IsOneTime())
	assert.False(t, occurrence.IsTemplate())
	assert.True(t, occurrence.IsOccurrence())
}

func TestChildExternalID(t *testing.T) {
	ext := "nutrition-abc"
	r := Reminder{ExternalID: &ext}
	got := r.ChildExternalID(4)
	assert.Equal(t, "nutrition-abc_4", *got)

	noExt := Reminder{}
	assert.Nil(t, noExt.ChildExternalID(1))
}
