package domain

// PushKeys holds the subscription's key material, base64url encoded.
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscriptionRequest mirrors a push subscription to the server.
type PushSubscriptionRequest struct {
	Endpoint string   `json:"endpoint"`
	Keys     PushKeys `json:"keys"`
}

// VAPIDKey is the server's application server public key.
type VAPIDKey struct {
	PublicKey string `json:"public_key" validate:"required"`
}

// PushTestResult reports how many subscriptions a test push reached.
type PushTestResult struct {
	Sent   int `json:"sent" validate:"gte=0"`
	Failed int `json:"failed" validate:"gte=0"`
}
