package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/middleware"
)

// testApp builds the full facade against a temp workspace and a dead
// gateway endpoint.
func testApp(t *testing.T) (*fiber.App, *config.Runtime) {
	t.Helper()
	home := t.TempDir()
	rt := &config.Runtime{
		GatewayBaseURL: "http://127.0.0.1:1",
		GatewayToken:   "t",
		GatewayPort:    18789,
		HomeDir:        home,
		WorkspaceDir:   filepath.Join(home, "workspace"),
		CronJobsPath:   filepath.Join(home, "cron", "jobs.json"),
		ConfigPath:     filepath.Join(home, "openclaw.json"),
		AgentsDir:      filepath.Join(home, "agents"),
		SkillDirs:      []string{filepath.Join(home, "skills")},
	}
	require.NoError(t, os.MkdirAll(rt.WorkspaceDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(rt.CronJobsPath), 0o755))

	catalog := &config.Catalog{
		Agents:   []string{"opus"},
		Channels: []config.ChannelEntry{{ID: "100", Name: "general", Type: "discord"}},
	}

	app := fiber.New()
	RegisterRoutes(app, NewServices(rt, catalog), middleware.NewAuth(""))
	return app, rt
}

func decodeBody(t *testing.T, resp io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp).Decode(out))
}

func TestStatusEndpoint_OfflineGatewayStill200(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status map[string]any
	decodeBody(t, resp.Body, &status)
	assert.Equal(t, false, status["online"])
	assert.Equal(t, "unknown", status["version"])
	assert.Equal(t, "unknown", status["model"])
	assert.Equal(t, float64(18789), status["port"])
}

func TestChatEndpoint_TerminalChannelNotSupported(t *testing.T) {
	app, _ := testApp(t)

	body := bytes.NewBufferString(`{"channelId":"main","message":"hello"}`)
	req := httptest.NewRequest("POST", "/api/channels/chat", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var envelope map[string]string
	decodeBody(t, resp.Body, &envelope)
	assert.Contains(t, envelope["error"], "not supported")
}

func TestFilesEndpoint_TraversalForbidden(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/files/..%2F..%2Fetc%2Fpasswd", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	var envelope map[string]string
	decodeBody(t, resp.Body, &envelope)
	assert.Equal(t, "Access denied", envelope["error"])
}

func TestFilesEndpoint_PutThenGetRoundTrip(t *testing.T) {
	app, _ := testApp(t)

	body := bytes.NewBufferString(`{"content":"# Memory\n\nremember this"}`)
	req := httptest.NewRequest("PUT", "/api/files/MEMORY.md", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/files/MEMORY.md", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var file map[string]any
	decodeBody(t, resp.Body, &file)
	assert.Equal(t, "# Memory\n\nremember this", file["content"])
	assert.NotEmpty(t, file["lastModified"])
}

func TestCronEndpoint_ToggleAndUnknownAction(t *testing.T) {
	app, rt := testApp(t)
	require.NoError(t, os.WriteFile(rt.CronJobsPath, []byte(`{"jobs":[{"id":"j1","name":"n","enabled":true}]}`), 0o644))

	body := bytes.NewBufferString(`{"action":"toggle","id":"j1"}`)
	req := httptest.NewRequest("POST", "/api/cron", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var ack map[string]any
	decodeBody(t, resp.Body, &ack)
	assert.Equal(t, true, ack["ok"])
	assert.Equal(t, false, ack["enabled"])

	body = bytes.NewBufferString(`{"action":"explode","id":"j1"}`)
	req = httptest.NewRequest("POST", "/api/cron", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestChannelsEndpoint_ListIncludesTerminalFirst(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/channels?probe=false", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var channels []map[string]any
	decodeBody(t, resp.Body, &channels)
	require.NotEmpty(t, channels)
	assert.Equal(t, "main", channels[0]["id"])
}

func TestMessagesEndpoint_MissingChannelId(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/channels/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSkillsEndpoint_NotFound(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/skills/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestConfigEndpoint_RedactsSecrets(t *testing.T) {
	app, rt := testApp(t)
	require.NoError(t, os.WriteFile(rt.ConfigPath, []byte(`{"discord":{"token":"abc"}}`), 0o644))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/config", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "abc")
	assert.Contains(t, string(raw), "REDACTED")
}
