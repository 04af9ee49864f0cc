package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/dto"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/repository"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
)

// CreateReminder enqueues a reminder-creation event rather than writing the
// row inline; the Ingestion Worker performs the actual upsert (spec §4.3,
// §6.1, §8 "creation endpoint always returns quickly").
func (h *Handlers) CreateReminder(c *gin.Context) {
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError(err.Error())})
		return
	}

	if len(req.RecurrencePattern) > 0 && req.StartDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("recurring reminders require start_date")})
		return
	}

	event := broker.CreationEvent{
		UserID:            req.UserID,
		ReminderType:      req.ReminderType,
		Title:             req.Title,
		Message:           req.Message,
		Payload:           req.Payload,
		ReminderTime:      req.ReminderTime,
		RecurrencePattern: req.RecurrencePattern,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		MaxOccurrences:    req.MaxOccurrences,
		Timezone:          req.Timezone,
		ExternalID:        req.ExternalID,
	}

	body, err := json.Marshal(event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalError})
		return
	}

	if err := h.broker.PublishInput(c.Request.Context(), body); err != nil {
		log.Printf("[api] failed to publish creation event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.BrokerPublishError(err)})
		return
	}

	externalID := req.ExternalID
	if externalID == "" {
		externalID = synthesizeExternalID(req)
	}
	c.JSON(http.StatusOK, dto.CreateReminderResponse{
		ExternalID: externalID,
		QueuedAt:   time.Now().UTC(),
	})
}

// synthesizeExternalID mirrors the Ingestion Worker's deterministic
// fallback (spec §7) so the immediate HTTP response can quote the same
// external_id the row will eventually carry.
func synthesizeExternalID(req dto.CreateReminderRequest) string {
	anchor := time.Now().UTC()
	if req.ReminderTime != nil {
		anchor = *req.ReminderTime
	} else if req.StartDate != nil {
		anchor = *req.StartDate
	}
	return req.UserID + ":" + req.ReminderType + ":" + strconv.FormatInt(anchor.Unix(), 10)
}

func (h *Handlers) ListReminders(c *gin.Context) {
	filter := repository.ReminderFilter{
		UserID: c.Query("user_id"),
	}
	if status := c.Query("status"); status != "" {
		s := models.ReminderStatus(status)
		filter.Status = &s
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.PageSize = n
		}
	}

	reminders, _, err := h.reminders.ListReminders(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}
	c.JSON(http.StatusOK, dto.RemindersToDTO(reminders))
}

func (h *Handlers) GetReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("invalid reminder id")})
		return
	}

	reminder, err := h.reminders.GetReminder(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrReminderNotFound})
		return
	}
	c.JSON(http.StatusOK, dto.ReminderToDTO(reminder))
}

func (h *Handlers) UpdateReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("invalid reminder id")})
		return
	}

	var req dto.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError(err.Error())})
		return
	}

	reminder, err := h.reminders.GetReminder(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrReminderNotFound})
		return
	}

	applyReminderUpdate(reminder, req)

	if err := h.reminders.UpdateReminder(reminder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}
	c.JSON(http.StatusOK, dto.ReminderToDTO(reminder))
}

func applyReminderUpdate(r *models.Reminder, req dto.UpdateReminderRequest) {
	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Message != nil {
		r.Message = *req.Message
	}
	if req.Payload != nil {
		r.Payload = models.JSONMap(req.Payload)
	}
	if req.ReminderTime != nil {
		r.ReminderTime = req.ReminderTime.UTC()
	}
	if req.EndDate != nil {
		r.EndDate = req.EndDate
	}
	if req.MaxOccurrences != nil {
		r.MaxOccurrences = req.MaxOccurrences
	}
	if req.Timezone != nil {
		r.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if len(req.RecurrencePattern) > 0 {
		raw, err := json.Marshal(req.RecurrencePattern)
		if err == nil {
			var pattern models.RecurrencePattern
			if json.Unmarshal(raw, &pattern) == nil {
				pattern.Normalize()
				r.RecurrencePattern = &pattern
			}
		}
	}
}

func (h *Handlers) DeleteReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("invalid reminder id")})
		return
	}
	if err := h.reminders.DeleteReminder(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) AcknowledgeReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("invalid reminder id")})
		return
	}
	if err := h.reminders.MarkAcknowledged(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}
