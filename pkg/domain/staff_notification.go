package domain

import "time"

// Staff notification statuses.
const (
	StaffStatusPending      = "pending"
	StaffStatusSent         = "sent"
	StaffStatusAcknowledged = "acknowledged"
	StaffStatusFailed       = "failed"
)

// StaffNotification is a task or message dispatched to operations staff.
type StaffNotification struct {
	ID            int64      `json:"id" validate:"required"`
	StaffName     string     `json:"staff_name"`
	Channel       string     `json:"channel"`
	Message       string     `json:"message"`
	Status        string     `json:"status"`
	PropertyCode  *string    `json:"property_code,omitempty"`
	ReservationID *int64     `json:"reservation_id,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StaffNotificationUpdate is a partial update; nil fields are left untouched.
type StaffNotificationUpdate struct {
	Status  *string `json:"status,omitempty"`
	Message *string `json:"message,omitempty"`
}
