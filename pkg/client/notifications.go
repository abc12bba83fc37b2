package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// NotificationFilter narrows an alert listing. Zero values are omitted.
type NotificationFilter struct {
	UnreadOnly   bool
	Severities   []string
	PropertyCode string
	Limit        int
}

func (f NotificationFilter) query() Query {
	q := Query{
		"severity":      f.Severities,
		"property_code": f.PropertyCode,
	}
	if f.UnreadOnly {
		q["unread"] = true
	}
	if f.Limit > 0 {
		q["limit"] = f.Limit
	}
	return q
}

// ListNotifications fetches operational follow-up alerts.
func (c *Client) ListNotifications(ctx context.Context, f NotificationFilter) ([]domain.Notification, error) {
	var notifs []domain.Notification
	if err := c.get(ctx, "/notifications", f.query(), &notifs); err != nil {
		return nil, fmt.Errorf("client.ListNotifications: %w", err)
	}
	return notifs, nil
}

// MarkNotificationRead marks a single alert as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	if err := c.patch(ctx, "/notifications/"+id.String(), map[string]bool{"read": true}, nil); err != nil {
		return fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every alert as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.post(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("client.MarkAllNotificationsRead: %w", err)
	}
	return nil
}

// DeleteNotification removes an alert.
func (c *Client) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	if err := c.delete(ctx, "/notifications/"+id.String()); err != nil {
		return fmt.Errorf("client.DeleteNotification: %w", err)
	}
	return nil
}

// --- Staff notifications ---

// StaffNotificationFilter narrows a staff notification listing.
type StaffNotificationFilter struct {
	Statuses     []string
	PropertyCode string
	Limit        int
}

func (f StaffNotificationFilter) query() Query {
	q := Query{
		"status":        f.Statuses,
		"property_code": f.PropertyCode,
	}
	if f.Limit > 0 {
		q["limit"] = f.Limit
	}
	return q
}

func staffPath(id int64) string {
	return "/staff-notifications/" + strconv.FormatInt(id, 10)
}

// ListStaffNotifications fetches notifications dispatched to staff.
func (c *Client) ListStaffNotifications(ctx context.Context, f StaffNotificationFilter) ([]domain.StaffNotification, error) {
	var notifs []domain.StaffNotification
	if err := c.get(ctx, "/staff-notifications", f.query(), &notifs); err != nil {
		return nil, fmt.Errorf("client.ListStaffNotifications: %w", err)
	}
	return notifs, nil
}

// GetStaffNotification fetches a single staff notification.
func (c *Client) GetStaffNotification(ctx context.Context, id int64) (*domain.StaffNotification, error) {
	var n domain.StaffNotification
	if err := c.get(ctx, staffPath(id), nil, &n); err != nil {
		return nil, fmt.Errorf("client.GetStaffNotification: %w", err)
	}
	return &n, nil
}

// UpdateStaffNotification applies a partial update to a staff notification.
func (c *Client) UpdateStaffNotification(ctx context.Context, id int64, u domain.StaffNotificationUpdate) (*domain.StaffNotification, error) {
	var n domain.StaffNotification
	if err := c.patch(ctx, staffPath(id), u, &n); err != nil {
		return nil, fmt.Errorf("client.UpdateStaffNotification: %w", err)
	}
	return &n, nil
}

// DeleteStaffNotification removes a staff notification.
func (c *Client) DeleteStaffNotification(ctx context.Context, id int64) error {
	if err := c.delete(ctx, staffPath(id)); err != nil {
		return fmt.Errorf("client.DeleteStaffNotification: %w", err)
	}
	return nil
}
