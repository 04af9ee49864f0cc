// Package userprofile looks up per-user profile data owned by other parts
// of the platform (spec §9: UserProfileSource).
package userprofile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Source resolves a user's profile timezone. Implementations reach into a
// table this service does not own.
type Source interface {
	TimezoneForUser(ctx context.Context, userID string) (string, error)
}

// ErrNoProfile is returned when the user has no profile row, or the row
// carries no timezone.
var ErrNoProfile = errors.New("userprofile: no timezone on file")

// GormSource reads from a `user_profiles` table that this service does not
// migrate or own; it only ever selects from it.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

type userProfileRow struct {
	UserID   string `gorm:"column:user_id"`
	Timezone string `gorm:"column:timezone"`
}

func (s *GormSource) TimezoneForUser(ctx context.Context, userID string) (string, error) {
	var row userProfileRow
	err := s.db.WithContext(ctx).
		Table("user_profiles").
		Select("user_id, timezone").
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoProfile
		}
		return "", err
	}
	if row.Timezone == "" {
		return "", ErrNoProfile
	}
	return row.Timezone, nil
}
