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

func messageServer(t *testing.T, textPayload string) *MessageService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(map[string]any{
			"ok": true,
			"result": map[string]any{
				"content": []map[string]any{{"type": "text", "text": textPayload}},
			},
		})
		require.NoError(t, err)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return NewMessageService(gateway.NewClient(srv.URL, "t"))
}

func TestMessageService_ListReturnsOldestFirst(t *testing.T) {
	// Upstream order: newest first (T3, T2, T1)
	payload := `[
		{"id":"3","content":"third","timestamp":"2026-01-01T00:03:00Z","author":{"id":"u1","username":"marco"}},
		{"id":"2","content":"second","timestamp":"2026-01-01T00:02:00Z","author":{"id":"bot","username":"OpenMarco","bot":true}},
		{"id":"1","content":"first","timestamp":"2026-01-01T00:01:00Z","author":{"id":"u1","username":"marco"}}
	]`
	svc := messageServer(t, payload)

	messages, err := svc.List(context.Background(), "12345", 30, "")
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "1", messages[0].ID)
	assert.Equal(t, "2", messages[1].ID)
	assert.Equal(t, "3", messages[2].ID)
	assert.True(t, messages[1].Author.Bot)
}

func TestMessageService_ListWrappedShape(t *testing.T) {
	payload := `{"messages":[{"id":"1","content":"hi","timestamp":"2026-01-01T00:00:00Z","author":{"id":"u","global_name":"Marco B"}}]}`
	svc := messageServer(t, payload)

	messages, err := svc.List(context.Background(), "12345", 30, "")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Marco B", messages[0].Author.Username)
	assert.Equal(t, "Marco B", messages[0].Author.DisplayName)
}

func TestMessageService_ListEmptyResultTolerated(t *testing.T) {
	svc := messageServer(t, `{"messages":[]}`)
	messages, err := svc.List(context.Background(), "12345", 30, "")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessageService_TerminalChannelRejected(t *testing.T) {
	svc := NewMessageService(gateway.NewClient("http://127.0.0.1:1", "t"))

	_, err := svc.List(context.Background(), "main", 30, "")
	require.Error(t, err)

	domErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnsupported, domErr.Kind)
}

func TestMessageService_ListMissingChannel(t *testing.T) {
	svc := NewMessageService(gateway.NewClient("http://127.0.0.1:1", "t"))
	_, err := svc.List(context.Background(), "", 30, "")
	require.Error(t, err)

	domErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInput, domErr.Kind)
}

func TestMessageService_Send(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Args map[string]any `json:"args"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		captured = req.Args
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	svc := NewMessageService(gateway.NewClient(srv.URL, "t"))
	require.NoError(t, svc.Send(context.Background(), "12345", "hello"))

	assert.Equal(t, "send", captured["action"])
	assert.Equal(t, "12345", captured["target"])
	assert.Equal(t, "hello", captured["message"])
}
