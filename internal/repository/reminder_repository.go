package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/models"
	"gorm.io/gorm"
)

// ReminderRepository is the Store component of spec §4.1: it persists,
// queries, and atomically updates reminder rows.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// CreateReminder is an idempotent insert keyed on ExternalID: if a row with
// the same external_id already exists, that row is returned unchanged.
func (r *ReminderRepository) CreateReminder(reminder *models.Reminder) (*models.Reminder, error) {
	if reminder.ExternalID != nil {
		var existing models.Reminder
		err := r.db.Where("external_id = ?", *reminder.ExternalID).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := r.db.Create(reminder).Error; err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *ReminderRepository) GetReminder(id uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.Where("id = ?", id).First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ReminderFilter narrows ListReminders. Zero-value fields are unfiltered.
type ReminderFilter struct {
	UserID       string
	Status       *models.ReminderStatus
	ReminderType string
	Page         int
	PageSize     int
}

func (r *ReminderRepository) ListReminders(filter ReminderFilter) ([]models.Reminder, int64, error) {
	var reminders []models.Reminder
	var total int64

	query := r.db.Model(&models.Reminder{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReminderType != "" {
		query = query.Where("reminder_type = ?", filter.ReminderType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	err := query.
		Order("reminder_time ASC NULLS LAST").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reminders).Error
	if err != nil {
		return nil, 0, err
	}
	return reminders, total, nil
}

func (r *ReminderRepository) UpdateReminder(reminder *models.Reminder) error {
	return r.db.Save(reminder).Error
}

func (r *ReminderRepository) DeleteReminder(id uuid.UUID) error {
	return r.db.Delete(&models.Reminder{}, "id = ?", id).Error
}

func (r *ReminderRepository) markStatus(id uuid.UUID, status models.ReminderStatus) error {
	return r.db.Model(&models.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *ReminderRepository) MarkQueued(id uuid.UUID) error {
	return r.markStatus(id, models.StatusQueued)
}

func (r *ReminderRepository) MarkProcessed(id uuid.UUID) error {
	return r.markStatus(id, models.StatusProcessed)
}

func (r *ReminderRepository) MarkFailed(id uuid.UUID) error {
	return r.markStatus(id, models.StatusFailed)
}

func (r *ReminderRepository) MarkSkipped(id uuid.UUID) error {
	return r.markStatus(id, models.StatusSkipped)
}

func (r *ReminderRepository) MarkAcknowledged(id uuid.UUID) error {
	return r.markStatus(id, models.StatusAcknowledged)
}

// GetDueReminders selects Pending, non-recurring rows whose reminder_time
// has arrived, ordered ascending (spec §4.1, feeds the dispatch scan).
func (r *ReminderRepository) GetDueReminders(now time.Time, limit int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Where("status = ? AND is_recurring = ? AND reminder_time <= ?", models.StatusPending, false, now).
		Order("reminder_time ASC").
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

// GetDueRecurringReminders selects active recurring templates whose
// next_occurrence has arrived and whose end_date/max_occurrences bounds
// still permit another occurrence (spec §4.1, feeds the expansion scan).
func (r *ReminderRepository) GetDueRecurringReminders(now time.Time, limit int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Where("is_recurring = ? AND is_active = ? AND next_occurrence IS NOT NULL AND next_occurrence <= ?"+
			" AND (end_date IS NULL OR end_date > ?)"+
			" AND (max_occurrences IS NULL OR occurrence_count < max_occurrences)",
			true, true, now, now).
		Order("next_occurrence ASC").
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

// GetExpiredActive selects active reminders (recurring or one-time) whose
// end_date or max_occurrences bound has been reached (spec §4.4.3).
func (r *ReminderRepository) GetExpiredActive(now time.Time, limit int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Where("is_active = ? AND (end_date IS NOT NULL AND end_date <= ?)", true, now).
		Or("is_active = ? AND max_occurrences IS NOT NULL AND occurrence_count >= max_occurrences", true).
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

// WithTransaction runs fn inside a single DB transaction, per spec §4.1's
// transactional-write requirement.
func (r *ReminderRepository) WithTransaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
