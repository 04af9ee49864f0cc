package broker

import "time"

// CreationEvent is the wire schema of the input queue (spec §6.2): it
// mirrors the reminder-create fields accepted by the REST API.
type CreationEvent struct {
	UserID            string                 `json:"user_id"`
	ReminderType      string                 `json:"reminder_type"`
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

// DispatchEvent is the wire schema of the output queue (spec §6.3).
type DispatchEvent struct {
	UserID       string                 `json:"user_id"`
	ReminderID   string                 `json:"reminder_id"`
	ReminderType string                 `json:"reminder_type"`
	Payload      map[string]interface{} `json:"payload"`
	Timestamp    string                 `json:"timestamp"` // ISO-8601 UTC of reminder_time
}
