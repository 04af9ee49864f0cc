// Package timezone centralizes the service's effective-timezone resolution
// (spec §9 "resolve_timezone"), replacing the implicit per-caller logic the
// source scattered across dispatcher and scheduler code.
package timezone

import (
	"context"
	"log"

	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/userprofile"
)

// Resolve returns the first non-empty of {reminder.Timezone, the user
// profile's timezone, defaultTZ}. A profile lookup error is treated as
// "no profile timezone" rather than propagated, matching the fail-open
// posture used elsewhere for this cross-domain read.
func Resolve(ctx context.Context, reminder *models.Reminder, profiles userprofile.Source, defaultTZ string) string {
	if reminder.Timezone != "" {
		return reminder.Timezone
	}
	if profiles != nil {
		tz, err := profiles.TimezoneForUser(ctx, reminder.UserID)
		if err == nil && tz != "" {
			return tz
		}
		if err != nil && err != userprofile.ErrNoProfile {
			log.Printf("[timezone] profile lookup failed for user %s: %v", reminder.UserID, err)
		}
	}
	return defaultTZ
}
