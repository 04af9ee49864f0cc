package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/models"
	"github.com/zivohealth/reminders/internal/push"
)

type fakeProfileSource struct {
	tz  string
	err error
}

func (f fakeProfileSource) TimezoneForUser(ctx context.Context, userID string) (string, error) {
	return f.tz, f.err
}

func TestResolveToken_InlinePayloadToken(t *testing.T) {
	w := &Worker{}
	event := broker.DispatchEvent{
		UserID:  "user-1",
		Payload: map[string]interface{}{"fcm_token": "inline-token"},
	}

	token, platform := w.resolveToken(event)
	assert.Equal(t, "inline-token", token)
	assert.Equal(t, models.PlatformIOS, platform)
}

func TestBuildMessage_DefaultsAndOverrides(t *testing.T) {
	w := &Worker{profiles: fakeProfileSource{tz: "America/New_York"}}
	event := broker.DispatchEvent{
		UserID:       "user-1",
		ReminderID:   "reminder-1",
		ReminderType: "medication",
		Timestamp:    time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Payload:      map[string]interface{}{"title": "Custom title", "message": "Custom body"},
	}

	msg := w.buildMessage(context.Background(), event, "device-token")

	assert.Equal(t, "device-token", msg.Token)
	assert.Equal(t, "Custom title", msg.Title)
	assert.Equal(t, "Custom body", msg.Body)
	assert.Equal(t, "reminder-1", msg.Data["reminder_id"])
	assert.Equal(t, "medication", msg.Data["reminder_type"])
	assert.NotEmpty(t, msg.Data["notification_id"])
	assert.Equal(t, msg.Data["notification_id"], msg.CollapseID)
	assert.Equal(t, "2025-06-01T09:00:00-04:00", msg.Data["timestamp_local"])
}

func TestBuildMessage_Defaults(t *testing.T) {
	w := &Worker{profiles: fakeProfileSource{err: assertError{}}}
	event := broker.DispatchEvent{
		UserID:    "user-1",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	msg := w.buildMessage(context.Background(), event, "token")
	assert.Equal(t, "Reminder", msg.Title)
	assert.Equal(t, "It's time!", msg.Body)
}

type assertError struct{}

func (assertError) Error() string { return "no profile" }

type fakePushClient struct{ name string }

func (f fakePushClient) Send(ctx context.Context, msg push.Message) error { return nil }

func TestClientFor_RoutesByPlatform(t *testing.T) {
	fcm := fakePushClient{name: "fcm"}
	apns := fakePushClient{name: "apns"}
	w := &Worker{fcmClient: fcm, apnsClient: apns}

	assert.Equal(t, apns, w.clientFor(models.PlatformIOS))
	assert.Equal(t, fcm, w.clientFor(models.PlatformAndroid))
	assert.Equal(t, fcm, w.clientFor(models.PlatformWeb))
}
