// Package client is the typed Go client for the ClawCRM facade. The CLI
// commands and the reply watcher use it; it mirrors the browser dashboard's
// fetch wrappers endpoint for endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marcobit/clawcrm/internal/models"
)

// Client calls the facade over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a facade client. The token may be empty when the facade runs
// without authentication.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx facade response, carrying the error envelope message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("facade returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("facade unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Status fetches the merged gateway status.
func (c *Client) Status(ctx context.Context) (*models.GatewayStatus, error) {
	var status models.GatewayStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Config fetches the redacted gateway configuration.
func (c *Client) Config(ctx context.Context) (any, error) {
	var config any
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// Channels lists the channel catalog. With probe set, each channel carries
// its latest-message preview.
func (c *Client) Channels(ctx context.Context, probe bool) ([]models.Channel, error) {
	path := "/api/channels"
	if !probe {
		path += "?probe=false"
	}
	var channels []models.Channel
	if err := c.do(ctx, http.MethodGet, path, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// Messages reads a channel's messages, oldest-first.
func (c *Client) Messages(ctx context.Context, channelID string, limit int, before string) ([]models.Message, error) {
	query := url.Values{"channelId": {channelID}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if before != "" {
		query.Set("before", before)
	}
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/channels/messages?"+query.Encode(), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// TerminalHistory reads the terminal session transcript.
func (c *Client) TerminalHistory(ctx context.Context, limit int) ([]models.Message, error) {
	path := "/api/channels/tui-history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// ChatResponse mirrors the facade's chat result.
type ChatResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Method  string `json:"method,omitempty"`
	Message string `json:"message,omitempty"`
}

// Chat submits one chat message to a channel.
func (c *Client) Chat(ctx context.Context, channelID, message string) (*ChatResponse, error) {
	body := map[string]string{"channelId": channelID, "message": message}
	var response ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/channels/chat", body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Sessions lists the gateway's active sessions.
func (c *Client) Sessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CronJobs lists the gateway's cron jobs, disabled ones included.
func (c *Client) CronJobs(ctx context.Context) ([]models.CronJob, error) {
	var jobs []models.CronJob
	if err := c.do(ctx, http.MethodGet, "/api/cron", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ToggleCronJob flips one job's enabled flag and returns the new value.
func (c *Client) ToggleCronJob(ctx context.Context, id string) (bool, error) {
	body := map[string]string{"action": "toggle", "id": id}
	var ack struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cron", body, &ack); err != nil {
		return false, err
	}
	return ack.Enabled, nil
}

// TriggerCronJob fires one job immediately.
func (c *Client) TriggerCronJob(ctx context.Context, id string) error {
	body := map[string]string{"action": "trigger", "id": id}
	return c.do(ctx, http.MethodPost, "/api/cron", body, nil)
}

// Skills lists the skill catalog.
func (c *Client) Skills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := c.do(ctx, http.MethodGet, "/api/skills", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Skill fetches one skill with its full descriptor content.
func (c *Client) Skill(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill
	if err := c.do(ctx, http.MethodGet, "/api/skills/"+url.PathEscape(name), nil, &skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

// Files lists the workspace files without content.
func (c *Client) Files(ctx context.Context) ([]models.WorkspaceFile, error) {
	var files []models.WorkspaceFile
	if err := c.do(ctx, http.MethodGet, "/api/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// File reads one workspace file with content.
func (c *Client) File(ctx context.Context, path string) (*models.WorkspaceFile, error) {
	var file models.WorkspaceFile
	if err := c.do(ctx, http.MethodGet, "/api/files/"+escapePath(path), nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// PutFile overwrites one workspace file.
func (c *Client) PutFile(ctx context.Context, path, content string) error {
	body := map[string]string{"content": content}
	return c.do(ctx, http.MethodPut, "/api/files/"+escapePath(path), body, nil)
}

// escapePath escapes each segment but keeps the slashes, matching the
// facade's wildcard route.
func escapePath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}
