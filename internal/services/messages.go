package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/models"
)

// MessageService reads and sends channel messages through the gateway's
// message tool.
type MessageService struct {
	client *gateway.Client
}

// NewMessageService creates a message service for the given gateway client.
func NewMessageService(client *gateway.Client) *MessageService {
	return &MessageService{client: client}
}

// rawMessage mirrors the upstream Discord-shaped message record.
type rawMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// Upstream timestamps are ISO strings already
	Timestamp string `json:"timestamp"`
	Author    struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Bot        bool   `json:"bot"`
	} `json:"author"`
	Attachments []struct {
		URL         string `json:"url"`
		Filename    string `json:"filename"`
		Size        int64  `json:"size"`
		ContentType string `json:"content_type"`
	} `json:"attachments"`
}

// List reads up to limit messages from a channel and returns them
// oldest-first. The upstream returns newest-first, so the slice is reversed
// before it leaves this layer. The terminal channel has no readable message
// backlog here and is rejected with a domain error.
func (s *MessageService) List(ctx context.Context, channelID string, limit int, before string) ([]models.Message, error) {
	if channelID == "" {
		return nil, errInput("channelId required")
	}
	if channelID == models.TerminalChannelID {
		return nil, errUnsupported("message listing is not supported for the terminal channel")
	}
	if limit <= 0 {
		limit = 30
	}

	args := map[string]any{
		"action":  "read",
		"channel": "discord",
		"target":  channelID,
		"limit":   limit,
	}
	if before != "" {
		args["before"] = before
	}

	result, err := s.client.Invoke(ctx, "message", args, "")
	if err != nil {
		return nil, errUnavailable(err.Error())
	}

	raws, err := decodeMessages(result)
	if err != nil {
		return nil, errUnavailable(err.Error())
	}

	messages := make([]models.Message, 0, len(raws))
	for i := len(raws) - 1; i >= 0; i-- {
		messages = append(messages, normalizeMessage(raws[i]))
	}
	return messages, nil
}

// Send posts text to a channel. The terminal channel cannot receive Discord
// sends.
func (s *MessageService) Send(ctx context.Context, channelID, text string) error {
	if channelID == "" || text == "" {
		return errInput("channelId and message required")
	}
	if channelID == models.TerminalChannelID {
		return errUnsupported("sending is not supported for the terminal channel")
	}

	_, err := s.client.Invoke(ctx, "message", map[string]any{
		"action":  "send",
		"channel": "discord",
		"target":  channelID,
		"message": text,
	}, "")
	if err != nil {
		return errUnavailable(err.Error())
	}
	return nil
}

// decodeMessages absorbs the duck-typed read result: a bare array, or an
// object with the list under "messages" or "data".
func decodeMessages(result any) ([]rawMessage, error) {
	if result == nil {
		return nil, nil
	}

	var list any
	switch v := result.(type) {
	case []any:
		list = v
	case map[string]any:
		if v["messages"] != nil {
			list = v["messages"]
		} else {
			list = v["data"]
		}
	case string:
		// Plain-text tool output carries no messages
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected message list shape %T", result)
	}
	if list == nil {
		return nil, nil
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	var raws []rawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return raws, nil
}

func normalizeMessage(m rawMessage) models.Message {
	username := m.Author.Username
	if username == "" {
		username = m.Author.GlobalName
	}
	if username == "" {
		username = "Unknown"
	}
	display := m.Author.GlobalName
	if display == "" {
		display = username
	}

	attachments := make([]models.Attachment, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, models.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			Size:        a.Size,
			ContentType: a.ContentType,
		})
	}

	return models.Message{
		ID:        m.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Author: models.Author{
			ID:          m.Author.ID,
			Username:    username,
			DisplayName: display,
			Bot:         m.Author.Bot,
		},
		Attachments: attachments,
	}
}
