package resolver

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/graphql/middleware"
	"github.com/zivohealth/reminders/internal/graphql/model"
	"github.com/zivohealth/reminders/internal/repository"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
)

// Reminder returns a single reminder by ID.
func (r *Resolver) Reminder(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	if _, ok := middleware.GetUserID(ctx); !ok {
		return nil, apperrors.ErrUnauthorized
	}

	reminder, err := r.Reminders.GetReminder(id)
	if err != nil {
		return nil, apperrors.ErrReminderNotFound
	}
	return model.ReminderFromModel(reminder), nil
}

// Reminders returns a paginated list of reminders for the caller, with
// optional filtering (spec §6.1 GET /reminders/).
func (r *Resolver) Reminders(ctx context.Context, filter *model.ReminderFilter, pagination *model.PaginationInput) (*model.ReminderConnection, error) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	page := 1
	pageSize := 20
	if pagination != nil {
		if pagination.First != nil && *pagination.First > 0 {
			pageSize = *pagination.First
			if pageSize > 100 {
				pageSize = 100
			}
		}
		if pagination.After != nil {
			if decoded, err := decodeCursor(*pagination.After); err == nil {
				page = decoded + 1
			}
		}
	}

	repoFilter := repository.ReminderFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}
	if filter != nil {
		if filter.UserID != nil && *filter.UserID != "" {
			repoFilter.UserID = *filter.UserID
		}
		if filter.Status != nil {
			s := model.ReminderStatusToModel(*filter.Status)
			repoFilter.Status = &s
		}
		if filter.ReminderType != nil {
			repoFilter.ReminderType = *filter.ReminderType
		}
	}

	reminders, total, err := r.Reminders.ListReminders(repoFilter)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	edges := make([]*model.ReminderEdge, len(reminders))
	for i := range reminders {
		edges[i] = &model.ReminderEdge{
			TypeName: "ReminderEdge",
			Node:     model.ReminderFromModel(&reminders[i]),
			Cursor:   encodeCursor(page, i),
		}
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	hasNextPage := page < totalPages
	hasPreviousPage := page > 1
	var startCursor, endCursor *string
	if len(edges) > 0 {
		startCursor = &edges[0].Cursor
		endCursor = &edges[len(edges)-1].Cursor
	}

	return &model.ReminderConnection{
		TypeName: "ReminderConnection",
		Edges:    edges,
		PageInfo: &model.PageInfo{
			TypeName:        "PageInfo",
			HasNextPage:     hasNextPage,
			HasPreviousPage: hasPreviousPage,
			StartCursor:     startCursor,
			EndCursor:       endCursor,
		},
		TotalCount: int(total),
	}, nil
}

// DeviceTokens returns the registered push tokens for the caller.
func (r *Resolver) DeviceTokens(ctx context.Context) ([]*model.DeviceToken, error) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	tokens, err := r.Devices.ListDeviceTokens(userID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	result := make([]*model.DeviceToken, len(tokens))
	for i := range tokens {
		result[i] = model.DeviceTokenFromModel(&tokens[i])
	}
	return result, nil
}

func encodeCursor(page, index int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d:%d", page, index)))
}

func decodeCursor(cursor string) (int, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, err
	}
	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid cursor format")
	}
	return strconv.Atoi(parts[0])
}
