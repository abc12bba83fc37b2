package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// ReservationFilter narrows a reservation listing. Zero values are omitted.
type ReservationFilter struct {
	PropertyCodes  []string
	GroupCode      string
	Statuses       []string
	CheckInFrom    string // YYYY-MM-DD
	CheckInTo      string // YYYY-MM-DD
	UnassignedOnly bool
	Limit          int
	Offset         int
}

func (f ReservationFilter) query() Query {
	q := Query{
		"property_code": f.PropertyCodes,
		"group_code":    f.GroupCode,
		"status":        f.Statuses,
		"check_in_from": f.CheckInFrom,
		"check_in_to":   f.CheckInTo,
	}
	if f.UnassignedOnly {
		q["unassigned"] = true
	}
	if f.Limit > 0 {
		q["limit"] = f.Limit
	}
	if f.Offset > 0 {
		q["offset"] = f.Offset
	}
	return q
}

func reservationPath(id int64) string {
	return "/reservations/" + strconv.FormatInt(id, 10)
}

// ListReservations fetches reservations.
func (c *Client) ListReservations(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	var res []domain.Reservation
	if err := c.get(ctx, "/reservations", f.query(), &res); err != nil {
		return nil, fmt.Errorf("client.ListReservations: %w", err)
	}
	return res, nil
}

// GetReservation fetches a single reservation by ID.
func (c *Client) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := c.get(ctx, reservationPath(id), nil, &r); err != nil {
		return nil, fmt.Errorf("client.GetReservation: %w", err)
	}
	return &r, nil
}

// AssignRoom assigns a room to a reservation and returns the updated reservation.
func (c *Client) AssignRoom(ctx context.Context, id int64, req domain.AssignRoomRequest) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := c.post(ctx, reservationPath(id)+"/assign-room", req, &r); err != nil {
		return nil, fmt.Errorf("client.AssignRoom: %w", err)
	}
	return &r, nil
}

// UpdateReservation applies a partial update to a reservation.
func (c *Client) UpdateReservation(ctx context.Context, id int64, u domain.ReservationUpdate) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := c.patch(ctx, reservationPath(id), u, &r); err != nil {
		return nil, fmt.Errorf("client.UpdateReservation: %w", err)
	}
	return &r, nil
}
