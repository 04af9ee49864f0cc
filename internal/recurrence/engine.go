// Package recurrence implements the pure, stateless recurrence computation
// described in spec §4.2: given a recurrence pattern and a reference
// timestamp, it derives the next firing instant. It holds no state and
// performs no I/O.
package recurrence

import (
	"errors"
	"time"

	"github.com/zivohealth/reminders/internal/models"
)

// ErrUnknownType is returned when the pattern's Type is not recognized.
var ErrUnknownType = errors.New("recurrence: unknown type")

// ErrEmptyWeekdaySet is returned when a weekly pattern carries no weekdays.
var ErrEmptyWeekdaySet = errors.New("recurrence: weekly pattern requires a non-empty weekday set")

// ErrInvalidDayOfMonth is returned when day_of_month is out of range.
var ErrInvalidDayOfMonth = errors.New("recurrence: day_of_month must be 1-31 or -1")

// ErrInvalidWeekday is returned when a weekly pattern names a weekday
// outside 0-6 (0=Monday).
var ErrInvalidWeekday = errors.New("recurrence: weekdays must be 0-6")

// ErrMissingCronExpression is returned when a custom pattern has no cron
// expression (after alias normalization).
var ErrMissingCronExpression = errors.New("recurrence: custom pattern requires a cron_expression")

// Validate checks a pattern for structural validity, independent of any
// reference time. Callers (ingestion, API updates) should call this before
// persisting a pattern.
func Validate(p *models.RecurrencePattern) error {
	if p == nil {
		return errors.New("recurrence: pattern is nil")
	}
	p.Normalize()

	switch p.Type {
	case models.RecurrenceDaily, models.RecurrenceQuarterly, models.RecurrenceYearly:
		// Interval-only; already normalized to >=1.
	case models.RecurrenceWeekly:
		if len(p.Weekdays) == 0 {
			return ErrEmptyWeekdaySet
		}
		for _, d := range p.Weekdays {
			if d < 0 || d > 6 {
				return ErrInvalidWeekday
			}
		}
	case models.RecurrenceMonthly:
		if p.DayOfMonth != nil {
			if *p.DayOfMonth != models.LastDayOfMonth && (*p.DayOfMonth < 1 || *p.DayOfMonth > 31) {
				return ErrInvalidDayOfMonth
			}
		}
	case models.RecurrenceCustom:
		if p.CronExpression == "" {
			return ErrMissingCronExpression
		}
		if _, err := parseCron(p.CronExpression); err != nil {
			return err
		}
	default:
		return ErrUnknownType
	}
	return nil
}

// NextAfter computes the next firing instant strictly greater than
// max(base, now), per the rule table in spec §4.2. It returns (instant,
// true) on success, or (zero, false) when no further occurrence exists
// (e.g. a pathological cron whose "next" equals base — spec's edge-case
// policy).
func NextAfter(p *models.RecurrencePattern, base, now time.Time) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	floor := base
	if now.After(floor) {
		floor = now
	}

	var next time.Time
	switch p.Type {
	case models.RecurrenceDaily:
		next = base.AddDate(0, 0, interval(p))
		if !next.After(floor) {
			next = floor.AddDate(0, 0, interval(p))
		}
		return next, true

	case models.RecurrenceWeekly:
		return nextWeekly(p, base, floor)

	case models.RecurrenceMonthly:
		return nextMonthly(p, base, floor)

	case models.RecurrenceQuarterly:
		next = base.AddDate(0, 0, 90*interval(p))
		if !next.After(floor) {
			next = floor.AddDate(0, 0, 90*interval(p))
		}
		return next, true

	case models.RecurrenceYearly:
		next = base.AddDate(0, 0, 365*interval(p))
		if !next.After(floor) {
			next = floor.AddDate(0, 0, 365*interval(p))
		}
		return next, true

	case models.RecurrenceCustom:
		return nextCron(p, floor)

	default:
		return time.Time{}, false
	}
}

func nextWeekly(p *models.RecurrencePattern, base, floor time.Time) (time.Time, bool) {
	wanted := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, d := range p.Weekdays {
		wanted[isoWeekday(d)] = true
	}
	if len(wanted) == 0 {
		return time.Time{}, false
	}

	step := interval(p)
	cursor := floor

	// Scan forward at most 7 days for a matching weekday strictly after floor.
	for i := 1; i <= 7; i++ {
		candidate := cursor.AddDate(0, 0, i)
		if wanted[candidate.Weekday()] {
			return candidate, true
		}
	}

	// None found in the remainder of this week: jump `interval` weeks ahead
	// from the start of the current week and rescan.
	weekStart := startOfWeek(cursor).AddDate(0, 0, 7*step)
	for i := 0; i < 7; i++ {
		candidate := weekStart.AddDate(0, 0, i)
		if candidate.After(floor) && wanted[candidate.Weekday()] {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// startOfWeek returns the Monday of t's week, at the same clock time as t.
func startOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

// isoWeekday maps the spec's 0=Monday convention to Go's time.Weekday
// (0=Sunday).
func isoWeekday(d int) time.Weekday {
	if d == 6 {
		return time.Sunday
	}
	return time.Weekday(d + 1)
}

func nextMonthly(p *models.RecurrencePattern, base, floor time.Time) (time.Time, bool) {
	step := interval(p)
	dayOfMonth := base.Day()
	last := false
	if p.DayOfMonth != nil {
		if *p.DayOfMonth == models.LastDayOfMonth {
			last = true
		} else {
			dayOfMonth = *p.DayOfMonth
		}
	}

	candidate := monthlyCandidate(base, 0, dayOfMonth, last)
	months := step
	for !candidate.After(floor) {
		candidate = monthlyCandidate(base, months, dayOfMonth, last)
		months += step
	}
	return candidate, true
}

// monthlyCandidate returns the target day in the month `monthsAhead` months
// after base's month, clamping to the last day of that month when the
// requested day exceeds it (spec §4.2 "clamp to last day").
func monthlyCandidate(base time.Time, monthsAhead, dayOfMonth int, lastDay bool) time.Time {
	year, month, _ := base.Date()
	firstOfTargetMonth := time.Date(year, month, 1, base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location()).AddDate(0, monthsAhead, 0)
	lastDayOfTargetMonth := firstOfTargetMonth.AddDate(0, 1, -1).Day()

	day := dayOfMonth
	if lastDay || day > lastDayOfTargetMonth {
		day = lastDayOfTargetMonth
	}
	if day < 1 {
		day = 1
	}
	return time.Date(firstOfTargetMonth.Year(), firstOfTargetMonth.Month(), day,
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

func interval(p *models.RecurrencePattern) int {
	if p.Interval <= 0 {
		return 1
	}
	return p.Interval
}
