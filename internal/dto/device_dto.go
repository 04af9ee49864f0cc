package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/models"
)

// RegisterDeviceTokenRequest upserts a push token for (user_id, platform)
// (spec §6.1 POST /reminders/devices).
type RegisterDeviceTokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
	FCMToken string `json:"fcm_token" binding:"required"`
}

// DeviceTokenDTO is the read shape for a registered device token.
type DeviceTokenDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Platform  string    `json:"platform"`
	FCMToken  string    `json:"fcm_token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DeviceTokenToDTO(d *models.DeviceToken) DeviceTokenDTO {
	return DeviceTokenDTO{
		ID:        d.ID,
		UserID:    d.UserID,
		Platform:  string(d.Platform),
		FCMToken:  d.FCMToken,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func DeviceTokensToDTO(tokens []models.DeviceToken) []DeviceTokenDTO {
	dtos := make([]DeviceTokenDTO, len(tokens))
	for i := range tokens {
		dtos[i] = DeviceTokenToDTO(&tokens[i])
	}
	return dtos
}
