package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/zivohealth/reminders/internal/models"
)

func TestDeviceTokenToDTO(t *testing.T) {
	now := time.Now().UTC()
	d := models.DeviceToken{
		ID:        uuid.New(),
		UserID:    "user-1",
		Platform:  models.PlatformIOS,
		FCMToken:  "token-abc",
		CreatedAt: now,
		UpdatedAt: now,
	}

	got := DeviceTokenToDTO(&d)

	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, "ios", got.Platform)
	assert.Equal(t, "token-abc", got.FCMToken)
}

func TestDeviceTokensToDTO(t *testing.T) {
	tokens := []models.DeviceToken{
		{ID: uuid.New(), UserID: "a", Platform: models.PlatformAndroid},
		{ID: uuid.New(), UserID: "b", Platform: models.PlatformWeb},
	}
	got := DeviceTokensToDTO(tokens)
	assert.Len(t, got, 2)
	assert.Equal(t, "android", got[0].Platform)
	assert.Equal(t, "web", got[1].Platform)
}
