package push

import (
	"context"
	"errors"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// Permission is the user's notification permission decision.
type Permission string

const (
	PermissionDefault Permission = "default" // not asked yet
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ErrNotRegistered is returned by Platform.Ready when no worker has been registered.
var ErrNotRegistered = errors.New("push: no worker registered")

// Subscription is a platform push subscription handle.
type Subscription struct {
	Endpoint string
	P256dh   []byte // subscriber public key, uncompressed P-256 point
	Auth     []byte // 16-byte auth secret
}

// Request converts the subscription to the server's subscribe payload.
func (s *Subscription) Request() domain.PushSubscriptionRequest {
	return domain.PushSubscriptionRequest{
		Endpoint: s.Endpoint,
		Keys: domain.PushKeys{
			P256dh: EncodeBase64URL(s.P256dh),
			Auth:   EncodeBase64URL(s.Auth),
		},
	}
}

// SubscribeOptions mirror the push manager's subscribe options.
type SubscribeOptions struct {
	UserVisibleOnly      bool
	ApplicationServerKey []byte
}

// Platform provides the notification capabilities of the host: a
// background worker, notification permission and a push manager.
type Platform interface {
	// Supported reports whether all required capabilities are present.
	Supported() bool
	// Register registers the background worker script at scriptPath.
	Register(ctx context.Context, scriptPath string) (Registration, error)
	// Ready returns the active registration, or ErrNotRegistered.
	Ready(ctx context.Context) (Registration, error)
	// Permission returns the current decision without prompting.
	Permission() Permission
	// RequestPermission prompts the user if no decision has been made.
	RequestPermission(ctx context.Context) (Permission, error)
}

// Registration is a registered worker and its push manager.
type Registration interface {
	Subscribe(ctx context.Context, opts SubscribeOptions) (*Subscription, error)
	// Subscription returns the current subscription, or nil if there is none.
	Subscription(ctx context.Context) (*Subscription, error)
	Unsubscribe(ctx context.Context, sub *Subscription) error
}

// KeyServer is the server half of the push flow. *client.Client implements it.
type KeyServer interface {
	VAPIDPublicKey(ctx context.Context) (string, error)
	SubscribePush(ctx context.Context, sub domain.PushSubscriptionRequest) error
	UnsubscribePush(ctx context.Context, endpoint string) error
}
