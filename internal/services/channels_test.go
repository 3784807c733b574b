package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/models"
)

func testCatalog() *config.Catalog {
	return &config.Catalog{
		Agents: []string{"opus"},
		Channels: []config.ChannelEntry{
			{ID: "100", Name: "general", Type: "discord", Emoji: "💬", Model: "sonnet"},
			{ID: "200", Name: "coding", Type: "discord", Emoji: "💻", Model: "opus"},
		},
	}
}

func TestChannelService_ListWithoutProbe(t *testing.T) {
	svc := NewChannelService(gateway.NewClient("http://127.0.0.1:1", "t"), testCatalog())

	channels := svc.List(context.Background(), false)
	require.Len(t, channels, 3)

	// Terminal channel is always first and always present
	assert.Equal(t, models.TerminalChannelID, channels[0].ID)
	assert.Equal(t, "webchat", channels[0].Type)
	assert.Equal(t, "opus", channels[0].Model)
	assert.True(t, channels[0].Active)

	assert.Equal(t, "general", channels[1].Name)
	assert.True(t, channels[1].Active)
}

func TestChannelService_ProbeFailureDegradesToInactive(t *testing.T) {
	// Gateway unreachable: every probe fails, listing still succeeds
	svc := NewChannelService(gateway.NewClient("http://127.0.0.1:1", "t"), testCatalog())

	channels := svc.List(context.Background(), true)
	require.Len(t, channels, 3)

	assert.True(t, channels[0].Active, "terminal channel is never probed")
	assert.False(t, channels[1].Active)
	assert.False(t, channels[2].Active)
}

func TestChannelService_ProbePopulatesPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Args map[string]any `json:"args"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(1), req.Args["limit"])

		if req.Args["target"] == "100" {
			payload := `[{"id":"9","content":"latest news","timestamp":"2026-02-01T10:00:00Z","author":{"id":"u1","global_name":"Marco"}}]`
			fmt.Fprintf(w, `{"ok":true,"result":{"content":[{"type":"text","text":%q}]}}`, payload)
			return
		}
		// Channel with no history at all: probe succeeds, no preview
		_, _ = w.Write([]byte(`{"ok":true,"result":{"content":[{"type":"text","text":"[]"}]}}`))
	}))
	defer srv.Close()

	svc := NewChannelService(gateway.NewClient(srv.URL, "t"), testCatalog())
	channels := svc.List(context.Background(), true)
	require.Len(t, channels, 3)

	general := channels[1]
	assert.True(t, general.Active)
	assert.Equal(t, "Marco: latest news", general.LastMessage)
	assert.Equal(t, "2026-02-01T10:00:00Z", general.LastTime)

	coding := channels[2]
	assert.True(t, coding.Active)
	assert.Empty(t, coding.LastMessage)
}
