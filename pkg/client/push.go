package client

import (
	"context"
	"fmt"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// VAPIDPublicKey fetches the server's push application server key
// (base64url encoded).
func (c *Client) VAPIDPublicKey(ctx context.Context) (string, error) {
	var key domain.VAPIDKey
	if err := c.get(ctx, "/push/vapid-public-key", nil, &key); err != nil {
		return "", fmt.Errorf("client.VAPIDPublicKey: %w", err)
	}
	return key.PublicKey, nil
}

// SubscribePush registers a push subscription with the server.
func (c *Client) SubscribePush(ctx context.Context, sub domain.PushSubscriptionRequest) error {
	if err := c.post(ctx, "/push/subscribe", sub, nil); err != nil {
		return fmt.Errorf("client.SubscribePush: %w", err)
	}
	return nil
}

// UnsubscribePush removes the subscription with the given endpoint.
func (c *Client) UnsubscribePush(ctx context.Context, endpoint string) error {
	if err := c.post(ctx, "/push/unsubscribe", map[string]string{"endpoint": endpoint}, nil); err != nil {
		return fmt.Errorf("client.UnsubscribePush: %w", err)
	}
	return nil
}

// SendTestPush asks the server to push a test notification to every
// subscription of the current user.
func (c *Client) SendTestPush(ctx context.Context) (*domain.PushTestResult, error) {
	var res domain.PushTestResult
	if err := c.post(ctx, "/push/test", nil, &res); err != nil {
		return nil, fmt.Errorf("client.SendTestPush: %w", err)
	}
	return &res, nil
}
