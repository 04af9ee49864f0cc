package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform is the target push platform for a device token (spec §3).
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// DeviceToken is a user's registered push token for one platform. Upsert is
// keyed on (UserID, Platform); the latest row by CreatedAt is active
// (spec §3 "DeviceToken").
type DeviceToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"size:255;not null;index:idx_device_tokens_user_platform" json:"user_id"`
	Platform  Platform  `gorm:"type:varchar(10);not null;index:idx_device_tokens_user_platform" json:"platform"`
	FCMToken  string    `gorm:"size:512;not null" json:"fcm_token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DeviceToken) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
