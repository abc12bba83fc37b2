package domain

import "time"

// Reservation statuses.
const (
	ReservationStatusConfirmed  = "confirmed"
	ReservationStatusCheckedIn  = "checked_in"
	ReservationStatusCheckedOut = "checked_out"
	ReservationStatusCancelled  = "cancelled"
)

// Reservation is a booking for a property. CheckIn and CheckOut are
// calendar dates in the property's local time zone.
type Reservation struct {
	ID              int64     `json:"id" validate:"required"`
	ReservationCode string    `json:"reservation_code"`
	PropertyCode    string    `json:"property_code" validate:"required"`
	GroupCode       string    `json:"group_code,omitempty"`
	RoomNumber      *string   `json:"room_number"`
	GuestName       string    `json:"guest_name"`
	GuestCount      int       `json:"guest_count" validate:"gte=0"`
	Channel         string    `json:"channel"`
	Status          string    `json:"status"`
	CheckIn         string    `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string    `json:"check_out" validate:"required,datetime=2006-01-02"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Assigned reports whether a room has been assigned.
func (r Reservation) Assigned() bool {
	return r.RoomNumber != nil && *r.RoomNumber != ""
}

// AssignRoomRequest is the payload for assigning a room to a reservation.
type AssignRoomRequest struct {
	RoomNumber string `json:"room_number"`
}

// ReservationUpdate is a partial update; nil fields are left untouched.
type ReservationUpdate struct {
	Status     *string `json:"status,omitempty"`
	GuestCount *int    `json:"guest_count,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}
