package recurrence

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zivohealth/reminders/internal/models"
)

// cronParser accepts the standard 5-field layout named in spec §4.2
// (minute hour day-of-month month day-of-week). Schedules are evaluated in
// UTC by default, per the spec's Open Question on cron timezone semantics —
// callers wanting local-time cron must shift `base` before calling NextAfter.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func parseCron(expr string) (cron.Schedule, error) {
	return cronParser.Parse(expr)
}

// nextCron computes cron's "next" after floor. If the schedule's next fire
// equals floor exactly (the pathological case spec §4.2 calls out), it is
// treated as not-found.
func nextCron(p *models.RecurrencePattern, floor time.Time) (time.Time, bool) {
	schedule, err := parseCron(p.CronExpression)
	if err != nil {
		return time.Time{}, false
	}
	next := schedule.Next(floor)
	if next.IsZero() || !next.After(floor) {
		return time.Time{}, false
	}
	return next, true
}
