// Package suppression implements spec §4.4.4: a best-effort, fail-open read
// into a nutrition-tracking table this service does not own, used to skip
// redundant nutrition-log reminders.
package suppression

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

// Source answers whether a meal was already logged on a given local date.
type Source interface {
	WasMealLogged(ctx context.Context, userID string, localDate time.Time, meal string) (bool, error)
}

// GormSource queries the external nutrition-raw-data table directly. It
// never migrates that table; it only ever selects from it.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) WasMealLogged(ctx context.Context, userID string, localDate time.Time, meal string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("nutrition_raw_data").
		Where("user_id = ? AND meal_date = ? AND meal_type = ?", userID, localDate.Format("2006-01-02"), meal).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ShouldSuppress evaluates the full suppression rule and fails open: any
// error from the underlying source is logged and treated as "do not
// suppress", per spec §4.4.4 ("the read is best-effort and must fail-open").
func ShouldSuppress(ctx context.Context, src Source, userID string, localDate time.Time, meal string) bool {
	if src == nil || meal == "" {
		return false
	}
	logged, err := src.WasMealLogged(ctx, userID, localDate, meal)
	if err != nil {
		log.Printf("[suppression] fail-open: query error for user %s meal %s: %v", userID, meal, err)
		return false
	}
	return logged
}
