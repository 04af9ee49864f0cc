package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zivohealth/reminders/internal/dto"
	"github.com/zivohealth/reminders/internal/models"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
)

func (h *Handlers) ListDeviceTokens(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError("user_id is required")})
		return
	}

	tokens, err := h.devices.ListDeviceTokens(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}

	if platform := c.Query("platform"); platform != "" {
		filtered := tokens[:0]
		for _, t := range tokens {
			if string(t.Platform) == platform {
				filtered = append(filtered, t)
			}
		}
		tokens = filtered
	}

	c.JSON(http.StatusOK, dto.DeviceTokensToDTO(tokens))
}

func (h *Handlers) RegisterDeviceToken(c *gin.Context) {
	var req dto.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ValidationError(err.Error())})
		return
	}

	token := &models.DeviceToken{
		UserID:   req.UserID,
		Platform: models.Platform(req.Platform),
		FCMToken: req.FCMToken,
	}

	if err := h.devices.UpsertDeviceToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.TransientStoreError(err)})
		return
	}

	c.JSON(http.StatusOK, dto.DeviceTokenToDTO(token))
}
