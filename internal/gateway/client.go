package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marcobit/clawcrm/internal/logger"
)

// ErrorKind classifies a failed gateway call.
type ErrorKind string

// Gateway error kinds
const (
	// ErrKindUnreachable means the HTTP request itself failed
	ErrKindUnreachable ErrorKind = "unreachable"
	// ErrKindGateway means the gateway answered with a non-2xx status
	ErrKindGateway ErrorKind = "gateway"
	// ErrKindTool means the gateway answered but the tool reported failure
	ErrKindTool ErrorKind = "tool"
)

// Error carries the kind, HTTP status and upstream message of a failed call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindGateway:
		return fmt.Sprintf("gateway error %d: %s", e.Status, e.Message)
	case ErrKindTool:
		return fmt.Sprintf("tool error: %s", e.Message)
	default:
		return fmt.Sprintf("gateway unreachable: %s", e.Message)
	}
}

// Client calls the gateway's generic tool-invocation endpoint. It performs
// no retries; callers decide whether a failed invocation is worth repeating.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a gateway client for the given base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}
}

type invokeRequest struct {
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args"`
	SessionKey string         `json:"sessionKey,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type invokeResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		Details json.RawMessage `json:"details"`
		Content []contentBlock  `json:"content"`
	} `json:"result"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Invoke POSTs {tool, args, sessionKey?} to /tools/invoke and unwraps the
// envelope. The returned value is the pre-parsed details payload when the
// gateway supplies one, otherwise the first text content block parsed as
// JSON (falling back to the raw string). A response with no usable content
// is a success with a nil payload; callers must tolerate that.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any, sessionKey string) (any, error) {
	if tool == "" {
		return nil, fmt.Errorf("tool name required")
	}

	body, err := json.Marshal(invokeRequest{Tool: tool, Args: args, SessionKey: sessionKey})
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tools/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build invoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: ErrKindUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: ErrKindGateway, Status: resp.StatusCode, Message: string(raw)}
	}

	var envelope invokeResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &Error{Kind: ErrKindGateway, Status: resp.StatusCode, Message: "invalid envelope: " + err.Error()}
	}
	if !envelope.OK {
		msg := envelope.Error.Message
		if msg == "" {
			msg = "tool invocation failed"
		}
		return nil, &Error{Kind: ErrKindTool, Message: msg}
	}

	if len(envelope.Result.Details) > 0 && string(envelope.Result.Details) != "null" {
		var details any
		if err := json.Unmarshal(envelope.Result.Details, &details); err == nil {
			return details, nil
		}
	}

	for _, block := range envelope.Result.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(block.Text), &parsed); err != nil {
			logger.Debugf("tool %s returned non-JSON text content", tool)
			return block.Text, nil
		}
		return parsed, nil
	}

	return nil, nil
}

// Health probes the gateway root with a short fixed timeout. It reports
// whether the gateway is reachable and any version it advertises.
func (c *Client) Health(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false, ""
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, ""
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return true, ""
	}
	return true, payload.Version
}
