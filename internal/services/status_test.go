package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/gateway"
)

func writeConfigFile(t *testing.T, raw string) *ConfigService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	return NewConfigService(path)
}

func TestStatusService_AllProbesFailYieldsDefaults(t *testing.T) {
	svc := NewStatusService(
		gateway.NewClient("http://127.0.0.1:1", "t"),
		NewConfigService(filepath.Join(t.TempDir(), "missing.json")),
		18789,
	)

	status := svc.Get(context.Background())
	assert.False(t, status.Online)
	assert.Equal(t, "unknown", status.Version)
	assert.Equal(t, "unknown", status.Model)
	assert.Equal(t, "unknown", status.Provider)
	assert.Equal(t, 18789, status.Port)
	assert.Zero(t, status.ChannelCount)
}

func TestStatusService_ConfigFieldsApplied(t *testing.T) {
	cfg := writeConfigFile(t, `{
		"meta": {"lastTouchedByVersion": "2026.2.1"},
		"model": {"default": "anthropic/opus-4"},
		"agents": {"opus": {"model": "anthropic/opus-4"}, "fast": {"model": "anthropic/haiku-4"}},
		"discord": {"guilds": {"g1": {"channels": {"a": {}, "b": {}}}, "g2": {"channels": {"c": {}}}}}
	}`)

	svc := NewStatusService(gateway.NewClient("http://127.0.0.1:1", "t"), cfg, 18789)
	status := svc.Get(context.Background())

	assert.False(t, status.Online, "config fields apply even when the gateway is down")
	assert.Equal(t, "2026.2.1", status.Version)
	assert.Equal(t, "anthropic", status.Provider)
	assert.Equal(t, "opus-4", status.Model)
	assert.Equal(t, 3, status.ChannelCount)
	assert.Equal(t, "anthropic/haiku-4", status.AgentModels["fast"])
}

func TestStatusService_HealthProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"2026.3.0"}`))
	}))
	defer srv.Close()

	svc := NewStatusService(
		gateway.NewClient(srv.URL, "t"),
		NewConfigService(filepath.Join(t.TempDir(), "missing.json")),
		18789,
	)

	status := svc.Get(context.Background())
	assert.True(t, status.Online)
	assert.Equal(t, "2026.3.0", status.Version)
	assert.Equal(t, "unknown", status.Model)
}

func TestStatusService_ConfigVersionOverridesHealthVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"2026.3.0"}`))
	}))
	defer srv.Close()

	cfg := writeConfigFile(t, `{"meta": {"lastTouchedByVersion": "2026.3.1"}}`)
	svc := NewStatusService(gateway.NewClient(srv.URL, "t"), cfg, 18789)

	status := svc.Get(context.Background())
	assert.True(t, status.Online)
	assert.Equal(t, "2026.3.1", status.Version)
}
