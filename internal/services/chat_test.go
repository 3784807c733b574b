package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/gateway"
)

func newChatService(t *testing.T, handler http.HandlerFunc) *ChatService {
	t.Helper()
	var client *gateway.Client
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		client = gateway.NewClient(srv.URL, "t")
	} else {
		client = gateway.NewClient("http://127.0.0.1:1", "t")
	}
	return NewChatService(client, NewMessageService(client), NewCronService(client, "/nonexistent"), NewSkillService(nil))
}

func TestChatService_HelpIsLocal(t *testing.T) {
	svc := newChatService(t, nil)

	resp, err := svc.Send(context.Background(), "100", "/help")
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Type)
	assert.Contains(t, resp.Content, "/status")
	assert.NotEmpty(t, resp.ID)
}

func TestChatService_Clear(t *testing.T) {
	svc := newChatService(t, nil)

	resp, err := svc.Send(context.Background(), "100", "/clear")
	require.NoError(t, err)
	assert.Equal(t, "clear", resp.Type)
}

func TestChatService_StatusCommand(t *testing.T) {
	svc := newChatService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tool string `json:"tool"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "session_status", req.Tool)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"content":[{"type":"text","text":"all systems go"}]}}`))
	})

	resp, err := svc.Send(context.Background(), "100", "/status")
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Type)
	assert.Equal(t, "all systems go", resp.Content)
}

func TestChatService_CommandFailureRendersLocally(t *testing.T) {
	// Gateway down: /status still produces a local response, not an error
	svc := newChatService(t, nil)

	resp, err := svc.Send(context.Background(), "100", "/status")
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Type)
	assert.Contains(t, resp.Content, "Error:")
}

func TestChatService_UnknownCommandFallsThroughToSend(t *testing.T) {
	var sent map[string]any
	svc := newChatService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Args map[string]any `json:"args"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sent = req.Args
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	resp, err := svc.Send(context.Background(), "100", "/shrug not a command")
	require.NoError(t, err)
	assert.Equal(t, "sent", resp.Type)
	assert.Equal(t, "/shrug not a command", sent["message"])
}

func TestChatService_PlainTextSent(t *testing.T) {
	svc := newChatService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	resp, err := svc.Send(context.Background(), "100", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "sent", resp.Type)
	assert.Equal(t, "hello", resp.Message)
	assert.Equal(t, "discord", resp.Method)
}

func TestChatService_TerminalChannelNotSupported(t *testing.T) {
	svc := newChatService(t, nil)

	_, err := svc.Send(context.Background(), "main", "hello")
	require.Error(t, err)

	domErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnsupported, domErr.Kind)
}

func TestChatService_MissingInput(t *testing.T) {
	svc := newChatService(t, nil)

	_, err := svc.Send(context.Background(), "", "hi")
	domErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInput, domErr.Kind)
}
