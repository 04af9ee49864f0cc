package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/models"
)

// Platform enum
type Platform string

const (
	PlatformIOS     Platform = "IOS"
	PlatformAndroid Platform = "ANDROID"
	PlatformWeb     Platform = "WEB"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

func PlatformFromModel(p models.Platform) Platform {
	switch p {
	case models.PlatformAndroid:
		return PlatformAndroid
	case models.PlatformWeb:
		return PlatformWeb
	default:
		return PlatformIOS
	}
}

func PlatformToModel(p Platform) models.Platform {
	switch p {
	case PlatformAndroid:
		return models.PlatformAndroid
	case PlatformWeb:
		return models.PlatformWeb
	default:
		return models.PlatformIOS
	}
}

// ReminderStatus enum — mirrors the lifecycle in spec §3.
type ReminderStatus string

const (
	ReminderStatusPending      ReminderStatus = "PENDING"
	ReminderStatusQueued       ReminderStatus = "QUEUED"
	ReminderStatusProcessed    ReminderStatus = "PROCESSED"
	ReminderStatusAcknowledged ReminderStatus = "ACKNOWLEDGED"
	ReminderStatusSkipped      ReminderStatus = "SKIPPED"
	ReminderStatusFailed       ReminderStatus = "FAILED"
)

func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusPending, ReminderStatusQueued, ReminderStatusProcessed,
		ReminderStatusAcknowledged, ReminderStatusSkipped, ReminderStatusFailed:
		return true
	}
	return false
}

func (s ReminderStatus) String() string {
	return string(s)
}

func ReminderStatusFromModel(s models.ReminderStatus) ReminderStatus {
	switch s {
	case models.StatusQueued:
		return ReminderStatusQueued
	case models.StatusProcessed:
		return ReminderStatusProcessed
	case models.StatusAcknowledged:
		return ReminderStatusAcknowledged
	case models.StatusSkipped:
		return ReminderStatusSkipped
	case models.StatusFailed:
		return ReminderStatusFailed
	default:
		return ReminderStatusPending
	}
}

func ReminderStatusToModel(s ReminderStatus) models.ReminderStatus {
	switch s {
	case ReminderStatusQueued:
		return models.StatusQueued
	case ReminderStatusProcessed:
		return models.StatusProcessed
	case ReminderStatusAcknowledged:
		return models.StatusAcknowledged
	case ReminderStatusSkipped:
		return models.StatusSkipped
	case ReminderStatusFailed:
		return models.StatusFailed
	default:
		return models.StatusPending
	}
}

// RecurrenceType enum
type RecurrenceType string

const (
	RecurrenceTypeDaily     RecurrenceType = "DAILY"
	RecurrenceTypeWeekly    RecurrenceType = "WEEKLY"
	RecurrenceTypeMonthly   RecurrenceType = "MONTHLY"
	RecurrenceTypeQuarterly RecurrenceType = "QUARTERLY"
	RecurrenceTypeYearly    RecurrenceType = "YEARLY"
	RecurrenceTypeCustom    RecurrenceType = "CUSTOM"
)

func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceTypeDaily, RecurrenceTypeWeekly, RecurrenceTypeMonthly,
		RecurrenceTypeQuarterly, RecurrenceTypeYearly, RecurrenceTypeCustom:
		return true
	}
	return false
}

func (t RecurrenceType) String() string {
	return string(t)
}

func RecurrenceTypeFromModel(t models.RecurrenceType) RecurrenceType {
	switch t {
	case models.RecurrenceWeekly:
		return RecurrenceTypeWeekly
	case models.RecurrenceMonthly:
		return RecurrenceTypeMonthly
	case models.RecurrenceQuarterly:
		return RecurrenceTypeQuarterly
	case models.RecurrenceYearly:
		return RecurrenceTypeYearly
	case models.RecurrenceCustom:
		return RecurrenceTypeCustom
	default:
		return RecurrenceTypeDaily
	}
}

func RecurrenceTypeToModel(t RecurrenceType) models.RecurrenceType {
	switch t {
	case RecurrenceTypeWeekly:
		return models.RecurrenceWeekly
	case RecurrenceTypeMonthly:
		return models.RecurrenceMonthly
	case RecurrenceTypeQuarterly:
		return models.RecurrenceQuarterly
	case RecurrenceTypeYearly:
		return models.RecurrenceYearly
	case RecurrenceTypeCustom:
		return models.RecurrenceCustom
	default:
		return models.RecurrenceDaily
	}
}

// ChangeAction enum, used by the reminderStatusChanged subscription.
type ChangeAction string

const (
	ChangeActionCreated ChangeAction = "CREATED"
	ChangeActionUpdated ChangeAction = "UPDATED"
	ChangeActionDeleted ChangeAction = "DELETED"
)

func (c ChangeAction) IsValid() bool {
	switch c {
	case ChangeActionCreated, ChangeActionUpdated, ChangeActionDeleted:
		return true
	}
	return false
}

func (c ChangeAction) String() string {
	return string(c)
}

// RecurrencePattern type
type RecurrencePattern struct {
	TypeName       string         `json:"__typename"`
	Type           RecurrenceType `json:"type"`
	Interval       int            `json:"interval"`
	EndDate        *time.Time     `json:"endDate"`
	MaxOccurrences *int           `json:"maxOccurrences"`
	Weekdays       []int          `json:"weekdays"`
	DayOfMonth     *int           `json:"dayOfMonth"`
	CronExpression *string        `json:"cronExpression"`
}

func RecurrencePatternFromModel(p *models.RecurrencePattern) *RecurrencePattern {
	if p == nil {
		return nil
	}
	var endDate *time.Time
	if p.EndDate != nil {
		if parsed, err := time.Parse(time.RFC3339, *p.EndDate); err == nil {
			endDate = &parsed
		}
	}
	var cron *string
	if p.CronExpression != "" {
		cron = &p.CronExpression
	}
	return &RecurrencePattern{
		TypeName:       "RecurrencePattern",
		Type:           RecurrenceTypeFromModel(p.Type),
		Interval:       p.Interval,
		EndDate:        endDate,
		MaxOccurrences: p.MaxOccurrences,
		Weekdays:       p.Weekdays,
		DayOfMonth:     p.DayOfMonth,
		CronExpression: cron,
	}
}

// RecurrencePatternInput type
type RecurrencePatternInput struct {
	Type           RecurrenceType `json:"type"`
	Interval       *int           `json:"interval"`
	EndDate        *time.Time     `json:"endDate"`
	MaxOccurrences *int           `json:"maxOccurrences"`
	Weekdays       []int          `json:"weekdays"`
	DayOfMonth     *int           `json:"dayOfMonth"`
	CronExpression *string        `json:"cronExpression"`
}

func RecurrencePatternToModel(p *RecurrencePatternInput) *models.RecurrencePattern {
	if p == nil {
		return nil
	}
	var endDate *string
	if p.EndDate != nil {
		s := p.EndDate.Format(time.RFC3339)
		endDate = &s
	}
	interval := 1
	if p.Interval != nil {
		interval = *p.Interval
	}
	cron := ""
	if p.CronExpression != nil {
		cron = *p.CronExpression
	}
	pattern := &models.RecurrencePattern{
		Type:           RecurrenceTypeToModel(p.Type),
		Interval:       interval,
		EndDate:        endDate,
		MaxOccurrences: p.MaxOccurrences,
		Weekdays:       p.Weekdays,
		DayOfMonth:     p.DayOfMonth,
		CronExpression: cron,
	}
	pattern.Normalize()
	return pattern
}

// DeviceToken type
type DeviceToken struct {
	TypeName  string    `json:"__typename"`
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Platform  Platform  `json:"platform"`
	FCMToken  string    `json:"fcmToken"`
	CreatedAt time.Time `json:"createdAt"`
}

func DeviceTokenFromModel(d *models.DeviceToken) *DeviceToken {
	if d == nil {
		return nil
	}
	return &DeviceToken{
		TypeName:  "DeviceToken",
		ID:        d.ID,
		UserID:    d.UserID,
		Platform:  PlatformFromModel(d.Platform),
		FCMToken:  d.FCMToken,
		CreatedAt: d.CreatedAt,
	}
}

type RegisterDeviceTokenInput struct {
	UserID   string   `json:"userId"`
	Platform Platform `json:"platform"`
	FCMToken string   `json:"fcmToken"`
}

// Reminder type
type Reminder struct {
	TypeName          string                 `json:"__typename"`
	ID                uuid.UUID              `json:"id"`
	UserID            string                 `json:"userId"`
	ReminderType      string                 `json:"reminderType"`
	Title             string                 `json:"title"`
	Message           string                 `json:"message"`
	Payload           map[string]interface{} `json:"payload"`
	ReminderTime      time.Time              `json:"reminderTime"`
	Status            ReminderStatus         `json:"status"`
	ExternalID        *string                `json:"externalId"`
	RecurrencePattern *RecurrencePattern     `json:"recurrencePattern"`
	IsRecurring       bool                   `json:"isRecurring"`
	ParentReminderID  *uuid.UUID             `json:"parentReminderId"`
	OccurrenceNumber  int                    `json:"occurrenceNumber"`
	IsGenerated       bool                   `json:"isGenerated"`
	StartDate         *time.Time             `json:"startDate"`
	EndDate           *time.Time             `json:"endDate"`
	MaxOccurrences    *int                   `json:"maxOccurrences"`
	Timezone          string                 `json:"timezone"`
	NextOccurrence    *time.Time             `json:"nextOccurrence"`
	OccurrenceCount   int                    `json:"occurrenceCount"`
	IsActive          bool                   `json:"isActive"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

func ReminderFromModel(r *models.Reminder) *Reminder {
	if r == nil {
		return nil
	}
	payload := map[string]interface{}(r.Payload)
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Reminder{
		TypeName:          "Reminder",
		ID:                r.ID,
		UserID:            r.UserID,
		ReminderType:      r.ReminderType,
		Title:             r.Title,
		Message:           r.Message,
		Payload:           payload,
		ReminderTime:      r.ReminderTime,
		Status:            ReminderStatusFromModel(r.Status),
		ExternalID:        r.ExternalID,
		RecurrencePattern: RecurrencePatternFromModel(r.RecurrencePattern),
		IsRecurring:       r.IsRecurring,
		ParentReminderID:  r.ParentReminderID,
		OccurrenceNumber:  r.OccurrenceNumber,
		IsGenerated:       r.IsGenerated,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		MaxOccurrences:    r.MaxOccurrences,
		Timezone:          r.Timezone,
		NextOccurrence:    r.NextOccurrence,
		OccurrenceCount:   r.OccurrenceCount,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// CreateReminderInput type — mirrors the ingestion contract of spec §4.3.
type CreateReminderInput struct {
	UserID            string                  `json:"userId"`
	ReminderType      string                  `json:"reminderType"`
	Title             *string                 `json:"title"`
	Message           *string                 `json:"message"`
	Payload           map[string]interface{}  `json:"payload"`
	ReminderTime      *time.Time              `json:"reminderTime"`
	RecurrencePattern *RecurrencePatternInput `json:"recurrencePattern"`
	StartDate         *time.Time              `json:"startDate"`
	EndDate           *time.Time              `json:"endDate"`
	MaxOccurrences    *int                    `json:"maxOccurrences"`
	Timezone          *string                 `json:"timezone"`
	ExternalID        *string                 `json:"externalId"`
}

type UpdateReminderInput struct {
	Title             *string                 `json:"title"`
	Message           *string                 `json:"message"`
	Payload           map[string]interface{}  `json:"payload"`
	ReminderTime      *time.Time              `json:"reminderTime"`
	RecurrencePattern *RecurrencePatternInput `json:"recurrencePattern"`
	EndDate           *time.Time              `json:"endDate"`
	MaxOccurrences    *int                    `json:"maxOccurrences"`
	IsActive          *bool                   `json:"isActive"`
}

type ReminderFilter struct {
	UserID       *string         `json:"userId"`
	Status       *ReminderStatus `json:"status"`
	ReminderType *string         `json:"reminderType"`
}

// Connection types, per the teacher's cursor-pagination convention.
type PageInfo struct {
	TypeName        string  `json:"__typename"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

type ReminderEdge struct {
	TypeName string    `json:"__typename"`
	Node     *Reminder `json:"node"`
	Cursor   string    `json:"cursor"`
}

type ReminderConnection struct {
	TypeName   string          `json:"__typename"`
	Edges      []*ReminderEdge `json:"edges"`
	PageInfo   *PageInfo       `json:"pageInfo"`
	TotalCount int             `json:"totalCount"`
}

type PaginationInput struct {
	First  *int    `json:"first"`
	After  *string `json:"after"`
	Last   *int    `json:"last"`
	Before *string `json:"before"`
}

// ReminderChangeEvent is published over the reminderStatusChanged
// subscription when a reminder is updated, acknowledged or deleted through
// the GraphQL mutations.
type ReminderChangeEvent struct {
	TypeName   string       `json:"__typename"`
	Action     ChangeAction `json:"action"`
	Reminder   *Reminder    `json:"reminder"`
	ReminderID uuid.UUID    `json:"reminderId"`
	Timestamp  time.Time    `json:"timestamp"`
}
