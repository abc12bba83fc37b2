package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Notification is an operational follow-up alert raised by the server,
// e.g. an unanswered message or an unassigned arrival.
type Notification struct {
	ID            uuid.UUID  `json:"id" validate:"required"`
	Kind          string     `json:"kind"`
	Severity      string     `json:"severity" validate:"omitempty,oneof=info warning critical"`
	Title         string     `json:"title"`
	Body          string     `json:"body,omitempty"`
	PropertyCode  *string    `json:"property_code,omitempty"`
	ReservationID *int64     `json:"reservation_id,omitempty"`
	ThreadID      *string    `json:"thread_id,omitempty"`
	Read          bool       `json:"read"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Overdue reports whether the alert has a due time in the past.
func (n Notification) Overdue(now time.Time) bool {
	return n.DueAt != nil && !n.Read && n.DueAt.Before(now)
}
