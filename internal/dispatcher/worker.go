// Package dispatcher implements the Dispatcher Worker (spec §4.5): it takes
// a dispatch event off the output queue and delivers a push notification,
// producing observable outcomes without mutating the reminder row.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/metrics"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/push"
	"github.com/zivohealth/reminders/internal/repository"
	"github.com/zivohealth/reminders/internal/userprofile"
)

// Worker consumes the output queue and sends pushes through the provider
// client matching each token's platform (spec §B.3: FCM for Android,
// APNs for iOS).
type Worker struct {
	conn        *broker.Conn
	fcmClient   push.Client
	apnsClient  push.Client
	devices     *repository.DeviceTokenRepository
	profiles    userprofile.Source
	sendTimeout time.Duration
}

// NewWorker takes the FCM and APNs clients separately; either may be a
// push.NoopClient when that provider's credentials aren't configured.
func NewWorker(conn *broker.Conn, fcmClient, apnsClient push.Client, devices *repository.DeviceTokenRepository, profiles userprofile.Source) *Worker {
	return &Worker{
		conn:        conn,
		fcmClient:   fcmClient,
		apnsClient:  apnsClient,
		devices:     devices,
		profiles:    profiles,
		sendTimeout: 10 * time.Second,
	}
}

// clientFor picks the provider client for the resolved token platform.
func (w *Worker) clientFor(platform models.Platform) push.Client {
	if platform == models.PlatformIOS {
		return w.apnsClient
	}
	return w.fcmClient
}

// Run consumes dispatch events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, consumerTag string) error {
	deliveries, err := w.conn.ConsumeOutput(consumerTag)
	if err != nil {
		return fmt.Errorf("dispatcher: failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event broker.DispatchEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("[Dispatcher] malformed dispatch event, dropping: %v", err)
		d.Ack(false)
		return
	}

	// Always ack: per spec §4.5/§7, push-provider failures must never cause
	// broker redelivery loops (poison-avoidance).
	defer d.Ack(false)

	token, platform := w.resolveToken(event)
	if token == "" {
		log.Printf("[Dispatcher] no device token for user %s, dropping dispatch event", event.UserID)
		metrics.PushSendTotal.WithLabelValues(string(platform), "no_token").Inc()
		return
	}

	msg := w.buildMessage(ctx, event, token)

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := w.clientFor(platform).Send(sendCtx, msg); err != nil {
		log.Printf("[Dispatcher] push send failed for reminder %s: %v", event.ReminderID, err)
		metrics.PushSendTotal.WithLabelValues(string(platform), "failure").Inc()
		return
	}
	metrics.PushSendTotal.WithLabelValues(string(platform), "success").Inc()
}

func (w *Worker) resolveToken(event broker.DispatchEvent) (string, models.Platform) {
	if inline, ok := event.Payload["fcm_token"].(string); ok && inline != "" {
		return inline, models.PlatformIOS
	}

	device, err := w.devices.GetLatestToken(event.UserID)
	if err != nil || device == nil {
		return "", models.PlatformIOS
	}
	return device.FCMToken, device.Platform
}

func (w *Worker) buildMessage(ctx context.Context, event broker.DispatchEvent, token string) push.Message {
	title := "Reminder"
	if t, ok := event.Payload["title"].(string); ok && t != "" {
		title = t
	}
	body := "It's time!"
	if b, ok := event.Payload["message"].(string); ok && b != "" {
		body = b
	}

	timestampUTC := event.Timestamp
	timestampLocal := timestampUTC
	if tz, err := w.profileTimezone(ctx, event.UserID); err == nil && tz != "" {
		if parsed, err := time.Parse(time.RFC3339, timestampUTC); err == nil {
			if loc, err := time.LoadLocation(tz); err == nil {
				timestampLocal = parsed.In(loc).Format(time.RFC3339)
			}
		}
	}

	notificationID := uuid.New().String()

	return push.Message{
		Token: token,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"reminder_id":     event.ReminderID,
			"reminder_type":   event.ReminderType,
			"timestamp_utc":   timestampUTC,
			"timestamp_local": timestampLocal,
			"notification_id": notificationID,
		},
		CollapseID: notificationID,
	}
}

func (w *Worker) profileTimezone(ctx context.Context, userID string) (string, error) {
	if w.profiles == nil {
		return "", nil
	}
	return w.profiles.TimezoneForUser(ctx, userID)
}
