package push

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	apnsProductionURL  = "https://api.push.apple.com"
	apnsDevelopmentURL = "https://api.sandbox.push.apple.com"
)

// APNSClient delivers push messages to iOS devices via Apple's HTTP/2 API,
// authenticating with a provider JWT signed by an ECDSA auth key.
type APNSClient struct {
	httpClient   *http.Client
	keyID        string
	teamID       string
	bundleID     string
	privateKey   *ecdsa.PrivateKey
	isProduction bool

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
}

func NewAPNSClient(keyID, teamID, privateKeyPEM, bundleID string, isProduction bool) (*APNSClient, error) {
	key, err := parseAPNSPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &APNSClient{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		keyID:        keyID,
		teamID:       teamID,
		bundleID:     bundleID,
		privateKey:   key,
		isProduction: isProduction,
	}, nil
}

func (c *APNSClient) Send(ctx context.Context, msg Message) error {
	aps := map[string]interface{}{
		"alert": map[string]interface{}{
			"title": msg.Title,
			"body":  msg.Body,
		},
		"mutable-content": 1,
		"sound":           "default",
	}
	payload := map[string]interface{}{"aps": aps}
	for k, v := range msg.Data {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.url() + "/3/device/" + msg.Token
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.getToken()
	if err != nil {
		return fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apns-topic", c.bundleID)
	req.Header.Set("apns-push-type", "alert")
	req.Header.Set("apns-priority", "10")
	if msg.CollapseID != "" {
		req.Header.Set("apns-collapse-id", msg.CollapseID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("apns error: %s - %s", resp.Status, string(respBody))
	}
	return nil
}

func (c *APNSClient) getToken() (string, error) {
	c.tokenMu.RLock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		token := c.token
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyID

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", err
	}
	c.token = signed
	c.tokenExpiry = now.Add(50 * time.Minute)
	return signed, nil
}

func (c *APNSClient) url() string {
	if c.isProduction {
		return apnsProductionURL
	}
	return apnsDevelopmentURL
}

func parseAPNSPrivateKey(pemString string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemString))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	ecdsaKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not an ECDSA private key")
	}
	return ecdsaKey, nil
}
