package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
)

const fcmURL = "https://fcm.googleapis.com/v1/projects/%s/messages:send"

// FCMClient delivers push messages through Firebase Cloud Messaging's HTTP
// v1 API, authenticating with a cached service-account OAuth2 token.
type FCMClient struct {
	httpClient  *http.Client
	projectID   string
	credentials []byte

	tokenMu     sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

func NewFCMClient(projectID, credentialsJSON string) *FCMClient {
	return &FCMClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		projectID:   projectID,
		credentials: []byte(credentialsJSON),
	}
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *fcmAndroidConfig `json:"android,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

type fcmAndroidConfig struct {
	Priority     string               `json:"priority,omitempty"`
	CollapseKey  string               `json:"collapse_key,omitempty"`
	Notification *fcmAndroidAlertHint `json:"notification,omitempty"`
}

type fcmAndroidAlertHint struct {
	ChannelID string `json:"channel_id,omitempty"`
	Priority  string `json:"notification_priority,omitempty"`
}

func (c *FCMClient) Send(ctx context.Context, msg Message) error {
	message := fcmMessage{
		Token: msg.Token,
		Notification: &fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &fcmAndroidConfig{
			Priority:    "high",
			CollapseKey: msg.CollapseID,
			Notification: &fcmAndroidAlertHint{
				ChannelID: "reminders",
				Priority:  "PRIORITY_HIGH",
			},
		},
	}

	payload, err := json.Marshal(map[string]interface{}{"message": message})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf(fcmURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.getAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fcm error: %s - %s", resp.Status, string(body))
	}
	return nil
}

func (c *FCMClient) getAccessToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.accessToken
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, c.credentials, "https://www.googleapis.com/auth/firebase.messaging")
	if err != nil {
		return "", fmt.Errorf("failed to parse credentials: %w", err)
	}
	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry.Add(-1 * time.Minute)
	return c.accessToken, nil
}
