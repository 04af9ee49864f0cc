package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// RecurrenceType enumerates the supported recurrence kinds (spec §4.2).
type RecurrenceType string

const (
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceYearly    RecurrenceType = "yearly"
	RecurrenceCustom    RecurrenceType = "custom"
)

// LastDayOfMonth is the sentinel value for DayOfMonth meaning "last day".
const LastDayOfMonth = -1

// RecurrencePattern is the typed recurrence-pattern variant called for by
// spec §9's redesign note, persisted as JSONB on the template row.
type RecurrencePattern struct {
	Type           RecurrenceType `json:"type"`
	Interval       int            `json:"interval,omitempty"`
	EndDate        *string        `json:"end_date,omitempty"`
	MaxOccurrences *int           `json:"max_occurrences,omitempty"`

	// Weekly-only.
	Weekdays []int `json:"weekdays,omitempty"`

	// Monthly-only; LastDayOfMonth (-1) means "last day of month".
	DayOfMonth *int `json:"day_of_month,omitempty"`

	// Custom-only. CronExpression is canonical; Cron is accepted as an
	// alias on input and normalized away (spec §4.2 "Normalization").
	CronExpression string `json:"cron_expression,omitempty"`
	Cron           string `json:"cron,omitempty"`
}

// Normalize applies the `cron` → `cron_expression` alias and defaults
// Interval to 1 when unset.
func (p *RecurrencePattern) Normalize() {
	if p.CronExpression == "" && p.Cron != "" {
		p.CronExpression = p.Cron
	}
	p.Cron = ""
	if p.Interval <= 0 {
		p.Interval = 1
	}
}

func (p RecurrencePattern) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *RecurrencePattern) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to scan RecurrencePattern: unsupported type")
		}
	}
	if len(bytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bytes, p); err != nil {
		return err
	}
	p.Normalize()
	return nil
}
