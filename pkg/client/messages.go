package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// MessageFilter narrows a message listing. Zero values are omitted.
type MessageFilter struct {
	Status        string
	PropertyCodes []string
	Channel       string
	ThreadID      string
	UnreadOnly    bool
	Limit         int
	Offset        int
}

func (f MessageFilter) query() Query {
	q := Query{
		"status":        f.Status,
		"property_code": f.PropertyCodes,
		"channel":       f.Channel,
		"thread_id":     f.ThreadID,
	}
	if f.UnreadOnly {
		q["unread"] = true
	}
	if f.Limit > 0 {
		q["limit"] = f.Limit
	}
	if f.Offset > 0 {
		q["offset"] = f.Offset
	}
	return q
}

func messagePath(id int64) string {
	return "/messages/" + strconv.FormatInt(id, 10)
}

// ListMessages fetches guest messages.
func (c *Client) ListMessages(ctx context.Context, f MessageFilter) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := c.get(ctx, "/messages", f.query(), &msgs); err != nil {
		return nil, fmt.Errorf("client.ListMessages: %w", err)
	}
	return msgs, nil
}

// FetchInbox fetches messages for the inbox. The list endpoint does not
// return auto replies, so every item's AutoReply is nil.
func (c *Client) FetchInbox(ctx context.Context, f MessageFilter) ([]domain.InboxMessage, error) {
	msgs, err := c.ListMessages(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("client.FetchInbox: %w", err)
	}
	return ToInbox(msgs), nil
}

// ToInbox wraps each message as an inbox entry with no auto reply.
func ToInbox(msgs []domain.Message) []domain.InboxMessage {
	inbox := make([]domain.InboxMessage, len(msgs))
	for i, m := range msgs {
		inbox[i] = domain.InboxMessage{Message: m, AutoReply: nil}
	}
	return inbox
}

// GetMessage fetches a single message by ID.
func (c *Client) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	var msg domain.Message
	if err := c.get(ctx, messagePath(id), nil, &msg); err != nil {
		return nil, fmt.Errorf("client.GetMessage: %w", err)
	}
	return &msg, nil
}

// UpdateMessage applies a partial update to a message.
func (c *Client) UpdateMessage(ctx context.Context, id int64, u domain.MessageUpdate) (*domain.Message, error) {
	var msg domain.Message
	if err := c.patch(ctx, messagePath(id), u, &msg); err != nil {
		return nil, fmt.Errorf("client.UpdateMessage: %w", err)
	}
	return &msg, nil
}

// GenerateAutoReply asks the server to produce a reply suggestion.
func (c *Client) GenerateAutoReply(ctx context.Context, id int64) (*domain.AutoReply, error) {
	var reply domain.AutoReply
	if err := c.post(ctx, messagePath(id)+"/auto-reply", nil, &reply); err != nil {
		return nil, fmt.Errorf("client.GenerateAutoReply: %w", err)
	}
	return &reply, nil
}

// GetAutoReply fetches the latest reply suggestion for a message.
func (c *Client) GetAutoReply(ctx context.Context, id int64) (*domain.AutoReply, error) {
	var reply domain.AutoReply
	if err := c.get(ctx, messagePath(id)+"/auto-reply", nil, &reply); err != nil {
		return nil, fmt.Errorf("client.GetAutoReply: %w", err)
	}
	return &reply, nil
}

// SendAutoReply sends the suggestion to the guest. An empty body sends the
// suggestion unchanged.
func (c *Client) SendAutoReply(ctx context.Context, id int64, req domain.SendAutoReplyRequest) error {
	if err := c.post(ctx, messagePath(id)+"/auto-reply/send", req, nil); err != nil {
		return fmt.Errorf("client.SendAutoReply: %w", err)
	}
	return nil
}
