package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/gateway"
)

func TestSessionService_ListDedupesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionKey string `json:"sessionKey"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var session string
		switch {
		case strings.HasSuffix(req.SessionKey, ":main"):
			session = `{"key":"agent:opus:main","kind":"main","channel":"webchat","displayName":"Terminal","model":"opus-4","updatedAt":1760000000000,"messages":[{"timestamp":1760000000000,"content":"older terminal chat"}]}`
		case strings.Contains(req.SessionKey, "channel:100"):
			session = `{"key":"agent:opus:discord:channel:100","kind":"channel","channel":"discord","displayName":"Discord #general","model":"opus-4","totalTokens":1200,"updatedAt":1770000000000,"messages":[{"timestamp":1770000000000,"content":[{"type":"text","text":"newest discord chat"}]}]}`
		default:
			// Second channel resolves to the same underlying session as the first
			session = `{"key":"agent:opus:discord:channel:100","kind":"channel","channel":"discord","displayName":"Discord #general","model":"opus-4","updatedAt":1770000000000}`
		}

		payload := `{"sessions":[` + session + `]}`
		resp := map[string]any{
			"ok": true,
			"result": map[string]any{
				"content": []map[string]any{{"type": "text", "text": payload}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	svc := NewSessionService(gateway.NewClient(srv.URL, "t"), testCatalog())
	sessions := svc.List(context.Background())
	require.Len(t, sessions, 2, "duplicate session keys collapse to one entry")

	// Newest first
	assert.Equal(t, "agent:opus:discord:channel:100", sessions[0].Key)
	assert.Equal(t, "agent:opus:main", sessions[1].Key)

	assert.Equal(t, "newest discord chat", sessions[0].LastMessage)
	assert.Equal(t, "opus", sessions[0].Agent)
	assert.Equal(t, "older terminal chat", sessions[1].LastMessage)
}

func TestSessionService_ListSurvivesOfflineGateway(t *testing.T) {
	svc := NewSessionService(gateway.NewClient("http://127.0.0.1:1", "t"), testCatalog())
	sessions := svc.List(context.Background())
	assert.Empty(t, sessions)
}

func TestNormalizeSession_ChannelNameFromDisplayName(t *testing.T) {
	s := rawSession{
		Key:         "agent:opus:discord:channel:555",
		DisplayName: "Discord #research",
	}
	view := normalizeSession(s, "")
	assert.Equal(t, "research", view.ChannelName)
	assert.Equal(t, "unknown", view.Channel)
	assert.Equal(t, "unknown", view.Model)
}

func TestNormalizeSession_PreviewTruncated(t *testing.T) {
	long := strings.Repeat("x", 2000)
	raw, err := json.Marshal(map[string]any{"timestamp": 1770000000000, "content": long})
	require.NoError(t, err)

	s := rawSession{Key: "agent:opus:main", Messages: []json.RawMessage{raw}}
	view := normalizeSession(s, "terminal")
	assert.Len(t, view.LastMessage, sessionPreviewLength)
}
