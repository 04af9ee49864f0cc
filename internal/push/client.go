// Package push implements the Dispatcher Worker's delivery side (spec
// §4.5): building a push message and sending it through a provider.
package push

import "context"

// Message is the provider-agnostic push payload spec §6.4 describes.
type Message struct {
	Token        string
	Title        string
	Body         string
	Data         map[string]string // all-string data block
	CollapseID   string            // notification_id, used as the OS-level collapse key
}

// Client sends a push message to a single device token.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// NoopClient is used when FCM/APNs credentials are absent (spec §6.5:
// "if absent, push is disabled and sends become no-ops with a warning").
// It never errors, so callers still update success metrics and avoid
// treating missing configuration as a per-send failure storm.
type NoopClient struct{}

func (NoopClient) Send(ctx context.Context, msg Message) error {
	return nil
}
