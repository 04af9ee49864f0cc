// Package api implements the Ingress API's REST surface (spec §6.1).
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/middleware"
	"github.com/zivohealth/reminders/internal/repository"
	"github.com/zivohealth/reminders/pkg/jwt"
)

// Handlers groups the dependencies shared by the reminder and device-token
// endpoints.
type Handlers struct {
	reminders  *repository.ReminderRepository
	devices    *repository.DeviceTokenRepository
	broker     *broker.Conn
	jwtManager *jwt.Manager
}

func NewHandlers(reminders *repository.ReminderRepository, devices *repository.DeviceTokenRepository, brokerConn *broker.Conn, jwtManager *jwt.Manager) *Handlers {
	return &Handlers{reminders: reminders, devices: devices, broker: brokerConn, jwtManager: jwtManager}
}

// Register mounts the reminders surface under r, matching the path table in
// spec §6.1. All endpoints but the health check require a bearer token
// (spec §6.1: "All endpoints authenticate...").
func (h *Handlers) Register(r *gin.Engine) {
	group := r.Group("/reminders")
	group.GET("/health", h.Health)

	authed := group.Group("/")
	authed.Use(middleware.AuthMiddleware(h.jwtManager))
	authed.POST("/", h.CreateReminder)
	authed.GET("/", h.ListReminders)
	authed.GET("/devices", h.ListDeviceTokens)
	authed.POST("/devices", h.RegisterDeviceToken)
	authed.GET("/:id", h.GetReminder)
	authed.PATCH("/:id", h.UpdateReminder)
	authed.DELETE("/:id", h.DeleteReminder)
	authed.POST("/:id/ack", h.AcknowledgeReminder)
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}
