package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marcobit/clawcrm/internal/gateway"
)

// ChatResponse is the outcome of one chat submission: either a locally
// rendered command response, a clear-display instruction, or an
// acknowledgement that the text was sent to the channel.
type ChatResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // "local", "clear" or "sent"
	Content string `json:"content,omitempty"`
	Method  string `json:"method,omitempty"`
	Message string `json:"message,omitempty"`
}

// ChatService handles chat submissions: slash commands are answered locally,
// everything else is forwarded to the channel through the message tool.
type ChatService struct {
	client   *gateway.Client
	messages *MessageService
	cron     *CronService
	skills   *SkillService
}

// NewChatService creates a chat service.
func NewChatService(client *gateway.Client, messages *MessageService, cron *CronService, skills *SkillService) *ChatService {
	return &ChatService{client: client, messages: messages, cron: cron, skills: skills}
}

const helpText = `**CRM Commands:**
- ` + "`/status`" + ` - Session status
- ` + "`/cron`" + ` - Cron jobs list
- ` + "`/skills`" + ` - Available skills
- ` + "`/clear`" + ` - Clear display
- Regular text is sent to the channel`

// Send processes one chat submission against a channel.
func (s *ChatService) Send(ctx context.Context, channelID, message string) (*ChatResponse, error) {
	if channelID == "" || message == "" {
		return nil, errInput("channelId and message required")
	}
	trimmed := strings.TrimSpace(message)

	if strings.HasPrefix(trimmed, "/") {
		cmd := strings.ToLower(strings.Fields(trimmed)[0])
		if response, handled := s.runCommand(ctx, cmd); handled {
			return response, nil
		}
		// Unrecognized commands fall through as literal text
	}

	if err := s.messages.Send(ctx, channelID, trimmed); err != nil {
		return nil, err
	}
	return &ChatResponse{
		ID:      uuid.New().String(),
		Type:    "sent",
		Method:  "discord",
		Message: trimmed,
	}, nil
}

// runCommand dispatches a recognized slash command. Command failures are
// rendered into the response body, not returned as errors, so the chat view
// always has something to show.
func (s *ChatService) runCommand(ctx context.Context, cmd string) (*ChatResponse, bool) {
	local := func(content string) *ChatResponse {
		return &ChatResponse{ID: uuid.New().String(), Type: "local", Content: content}
	}

	switch cmd {
	case "/clear":
		return &ChatResponse{ID: uuid.New().String(), Type: "clear"}, true
	case "/help":
		return local(helpText), true
	case "/status":
		result, err := s.client.Invoke(ctx, "session_status", map[string]any{}, "")
		if err != nil {
			return local("Error: " + err.Error()), true
		}
		if text, ok := result.(string); ok {
			return local(text), true
		}
		pretty, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return local("Error: " + err.Error()), true
		}
		return local(string(pretty)), true
	case "/cron":
		jobs, err := s.cron.List(ctx)
		if err != nil {
			return local("Error: " + err.Error()), true
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**Cron Jobs (%d):**\n", len(jobs))
		for _, job := range jobs {
			mark := "disabled"
			if job.Enabled {
				mark = "enabled"
			}
			fmt.Fprintf(&b, "- [%s] **%s** - `%s`\n", mark, job.Name, job.Schedule)
		}
		return local(strings.TrimRight(b.String(), "\n")), true
	case "/skills":
		skills := s.skills.List()
		var b strings.Builder
		fmt.Fprintf(&b, "**Skills (%d):**\n", len(skills))
		shown := skills
		if len(shown) > 20 {
			shown = shown[:20]
		}
		for _, skill := range shown {
			fmt.Fprintf(&b, "- **%s**\n", skill.Name)
		}
		if len(skills) > 20 {
			fmt.Fprintf(&b, "...and %d more\n", len(skills)-20)
		}
		return local(strings.TrimRight(b.String(), "\n")), true
	default:
		return nil, false
	}
}
