package domain

import "time"

// Message statuses.
const (
	MessageStatusNew     = "new"
	MessageStatusReplied = "replied"
	MessageStatusHandled = "handled"
)

// Message is a guest message received through an OTA channel.
type Message struct {
	ID            int64     `json:"id" validate:"required"`
	ThreadID      string    `json:"thread_id,omitempty"`
	PropertyCode  string    `json:"property_code,omitempty"`
	ReservationID *int64    `json:"reservation_id,omitempty"`
	GuestName     string    `json:"guest_name"`
	Channel       string    `json:"channel"`
	Direction     string    `json:"direction" validate:"omitempty,oneof=inbound outbound"`
	Body          string    `json:"body"`
	Status        string    `json:"status"`
	Read          bool      `json:"read"`
	ReceivedAt    time.Time `json:"received_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AutoReply is a server-generated reply suggestion for a message.
type AutoReply struct {
	ID         int64      `json:"id" validate:"required"`
	MessageID  int64      `json:"message_id" validate:"required"`
	Suggestion string     `json:"suggestion"`
	Confidence float64    `json:"confidence" validate:"gte=0,lte=1"`
	Status     string     `json:"status"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// InboxMessage is the inbox view of a message. The list endpoint never
// returns auto replies, so AutoReply is nil until one is generated.
type InboxMessage struct {
	Message
	AutoReply *AutoReply `json:"auto_reply"`
}

// MessageUpdate is a partial update; nil fields are left untouched.
type MessageUpdate struct {
	Status *string `json:"status,omitempty"`
	Read   *bool   `json:"read,omitempty"`
}

// SendAutoReplyRequest sends a suggestion, optionally edited by staff.
type SendAutoReplyRequest struct {
	Body string `json:"body,omitempty"`
}
