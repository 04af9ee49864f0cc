package resolver

import (
	"context"

	"github.com/zivohealth/reminders/internal/graphql/middleware"
	"github.com/zivohealth/reminders/internal/graphql/model"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
)

// ReminderStatusChanged streams lifecycle transitions for the caller's
// reminders (spec §9, WebSocket notification channel).
func (r *Resolver) ReminderStatusChanged(ctx context.Context) (<-chan *model.ReminderChangeEvent, error) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	eventChan := make(chan *model.ReminderChangeEvent, 10)
	hubChan := make(chan interface{}, 10)

	if r.Hub != nil {
		r.Hub.RegisterSubscription(userID, hubChan)
	}

	go func() {
		defer close(eventChan)
		defer func() {
			if r.Hub != nil {
				r.Hub.UnregisterSubscription(userID, hubChan)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-hubChan:
				if !ok {
					return
				}
				if reminderEvent, ok := event.(*model.ReminderChangeEvent); ok {
					select {
					case eventChan <- reminderEvent:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return eventChan, nil
}
