package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/models"
	"gorm.io/gorm"
)

// DeviceTokenRepository implements the device-token slice of the Store
// (spec §4.1): upsert keyed on (user_id, platform), latest-row lookup.
type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// UpsertDeviceToken replaces the current token for (UserID, Platform), or
// inserts one if none exists.
func (r *DeviceTokenRepository) UpsertDeviceToken(token *models.DeviceToken) error {
	var existing models.DeviceToken
	err := r.db.Where("user_id = ? AND platform = ?", token.UserID, token.Platform).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(token).Error
	}
	if err != nil {
		return err
	}
	existing.FCMToken = token.FCMToken
	return r.db.Save(&existing).Error
}

// GetLatestTokenForUser returns the active token for (user_id, platform).
func (r *DeviceTokenRepository) GetLatestTokenForUser(userID string, platform models.Platform) (*models.DeviceToken, error) {
	var token models.DeviceToken
	err := r.db.
		Where("user_id = ? AND platform = ?", userID, platform).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetLatestToken returns a user's most recently registered token across all
// platforms, so the dispatcher can pick the right push provider for
// whichever device the user registered last.
func (r *DeviceTokenRepository) GetLatestToken(userID string) (*models.DeviceToken, error) {
	var token models.DeviceToken
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *DeviceTokenRepository) ListDeviceTokens(userID string) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}

func (r *DeviceTokenRepository) GetByID(id uuid.UUID) (*models.DeviceToken, error) {
	var token models.DeviceToken
	if err := r.db.Where("id = ?", id).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
