package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivohealth/reminders/internal/models"
)

func mustUTC(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestValidate_WeeklyEmptySet(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceWeekly}
	err := Validate(p)
	require.ErrorIs(t, err, ErrEmptyWeekdaySet)
}

func TestValidate_UnknownType(t *testing.T) {
	p := &models.RecurrencePattern{Type: "bogus"}
	require.ErrorIs(t, Validate(p), ErrUnknownType)
}

func TestValidate_CronAlias(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceCustom, Cron: "0 9 * * *"}
	require.NoError(t, Validate(p))
	assert.Equal(t, "0 9 * * *", p.CronExpression)
	assert.Empty(t, p.Cron)
}

func TestNextAfter_Daily(t *testing.T) {
	base := mustUTC("2025-02-10T09:00:00Z")
	p := &models.RecurrencePattern{Type: models.RecurrenceDaily, Interval: 1}

	next, ok := NextAfter(p, base, base)
	require.True(t, ok)
	assert.Equal(t, mustUTC("2025-02-11T09:00:00Z"), next)
}

func TestNextAfter_WeeklyMonWedFri(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceWeekly, Interval: 1, Weekdays: []int{0, 2, 4}}
	base := mustUTC("2025-03-03T08:00:00Z") // Monday

	expect := []time.Time{
		mustUTC("2025-03-05T08:00:00Z"), // Wed
		mustUTC("2025-03-07T08:00:00Z"), // Fri
		mustUTC("2025-03-10T08:00:00Z"), // next Mon
	}

	cursor := base
	for _, want := range expect {
		next, ok := NextAfter(p, cursor, cursor)
		require.True(t, ok)
		assert.Equal(t, want, next)
		cursor = next
	}
}

func TestNextAfter_MonthlyLastDay(t *testing.T) {
	lastDay := models.LastDayOfMonth
	p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: &lastDay}
	base := mustUTC("2025-01-31T23:00:00Z")

	expect := []time.Time{
		mustUTC("2025-02-28T23:00:00Z"),
		mustUTC("2025-03-31T23:00:00Z"),
		mustUTC("2025-04-30T23:00:00Z"),
	}

	cursor := base
	for _, want := range expect {
		next, ok := NextAfter(p, cursor, cursor)
		require.True(t, ok)
		assert.Equal(t, want, next)
		cursor = next
	}
}

func TestNextAfter_MonthlyClampsOverflow(t *testing.T) {
	dom := 31
	p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: &dom}
	base := mustUTC("2025-01-31T00:00:00Z")

	next, ok := NextAfter(p, base, base)
	require.True(t, ok)
	assert.Equal(t, mustUTC("2025-02-28T00:00:00Z"), next)
}

func TestNextAfter_Quarterly(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceQuarterly, Interval: 1}
	base := mustUTC("2025-01-01T00:00:00Z")
	next, ok := NextAfter(p, base, base)
	require.True(t, ok)
	assert.Equal(t, base.AddDate(0, 0, 90), next)
}

func TestNextAfter_Yearly(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceYearly, Interval: 1}
	base := mustUTC("2025-01-01T00:00:00Z")
	next, ok := NextAfter(p, base, base)
	require.True(t, ok)
	assert.Equal(t, base.AddDate(0, 0, 365), next)
}

func TestNextAfter_CustomCron(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "0 9 * * *"}
	base := mustUTC("2025-04-01T00:00:00Z")
	next, ok := NextAfter(p, base, base)
	require.True(t, ok)
	assert.Equal(t, mustUTC("2025-04-01T09:00:00Z"), next)
}

func TestNextAfter_FloorRespectsNow(t *testing.T) {
	base := mustUTC("2025-01-01T00:00:00Z")
	now := mustUTC("2025-01-05T00:00:00Z")
	p := &models.RecurrencePattern{Type: models.RecurrenceDaily, Interval: 1}

	next, ok := NextAfter(p, base, now)
	require.True(t, ok)
	assert.True(t, next.After(now))
	assert.Equal(t, mustUTC("2025-01-06T00:00:00Z"), next)
}
