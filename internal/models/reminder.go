package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderStatus is the lifecycle state of a reminder row (spec §3).
type ReminderStatus string

const (
	StatusPending      ReminderStatus = "pending"
	StatusQueued       ReminderStatus = "queued"
	StatusProcessed    ReminderStatus = "processed"
	StatusAcknowledged ReminderStatus = "acknowledged"
	StatusSkipped      ReminderStatus = "skipped"
	StatusFailed       ReminderStatus = "failed"
)

// JSONMap is an opaque passthrough payload (title/message/context/hints).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("failed to scan JSONMap: unsupported type")
		}
	}
	if len(bytes) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Reminder is the unified one-time/recurring-template/generated-occurrence
// row described in spec §3.
type Reminder struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"size:255;not null;index:idx_reminders_user_time" json:"user_id"`
	ReminderType string    `gorm:"size:100;not null" json:"reminder_type"`

	Title   string  `gorm:"size:500" json:"title,omitempty"`
	Message string  `gorm:"size:2000" json:"message,omitempty"`
	Payload JSONMap `gorm:"type:jsonb" json:"payload,omitempty"`

	ReminderTime time.Time      `gorm:"not null;index:idx_reminders_status_time;index:idx_reminders_user_time" json:"reminder_time"`
	Status       ReminderStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_reminders_status_time" json:"status"`

	ExternalID *string `gorm:"size:255;uniqueIndex" json:"external_id,omitempty"`

	// Recurrence fields — null/zero for one-time reminders.
	RecurrencePattern *RecurrencePattern `gorm:"type:jsonb" json:"recurrence_pattern,omitempty"`
	IsRecurring       bool               `gorm:"not null;default:false;index:idx_reminders_recurring_active" json:"is_recurring"`
	ParentReminderID  *uuid.UUID         `gorm:"type:uuid;index:idx_reminders_parent" json:"parent_reminder_id,omitempty"`
	OccurrenceNumber  int                `gorm:"not null;default:0" json:"occurrence_number,omitempty"`
	IsGenerated       bool               `gorm:"not null;default:false" json:"is_generated"`

	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	MaxOccurrences *int       `json:"max_occurrences,omitempty"`
	Timezone       string     `gorm:"size:64" json:"timezone,omitempty"`

	LastOccurrence  *time.Time `json:"last_occurrence,omitempty"`
	NextOccurrence  *time.Time `gorm:"index:idx_reminders_next_occurrence" json:"next_occurrence,omitempty"`
	OccurrenceCount int        `gorm:"not null;default:0" json:"occurrence_count"`

	IsActive bool `gorm:"not null;default:true;index:idx_reminders_recurring_active" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// IsOneTime reports whether the row is a plain one-time reminder (spec §3
// invariant (a)).
func (r *Reminder) IsOneTime() bool {
	return !r.IsRecurring && !r.IsGenerated
}

// IsTemplate reports whether the row is a recurring template (invariant (b)).
func (r *Reminder) IsTemplate() bool {
	return r.IsRecurring && !r.IsGenerated
}

// IsOccurrence reports whether the row is a generated occurrence (invariant (c)).
func (r *Reminder) IsOccurrence() bool {
	return !r.IsRecurring && r.IsGenerated && r.ParentReminderID != nil
}

// EligibleForExpansion implements the template-eligibility predicate of spec §3.
func (r *Reminder) EligibleForExpansion(now time.Time) bool {
	if !r.IsRecurring || !r.IsActive || r.NextOccurrence == nil {
		return false
	}
	if r.NextOccurrence.After(now) {
		return false
	}
	if r.EndDate != nil && !r.EndDate.After(now) {
		return false
	}
	if r.MaxOccurrences != nil && r.OccurrenceCount >= *r.MaxOccurrences {
		return false
	}
	return true
}

// EligibleForDispatch implements the dispatch-eligibility predicate of spec §3.
func (r *Reminder) EligibleForDispatch(now time.Time) bool {
	return r.Status == StatusPending && !r.IsRecurring && !r.ReminderTime.After(now)
}

// ChildExternalID derives a generated occurrence's external_id from its
// template's, per spec §3 ("{parent.external_id}_{occurrence_number}").
func (r *Reminder) ChildExternalID(occurrenceNumber int) *string {
	if r.ExternalID == nil {
		return nil
	}
	id := *r.ExternalID + "_" + strconv.Itoa(occurrenceNumber)
	return &id
}
