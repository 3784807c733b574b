package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/models"
	"github.com/marcobit/clawcrm/internal/recovery"
)

const sessionPreviewLength = 500

var (
	agentKeyPattern   = regexp.MustCompile(`^agent:(\w+):`)
	hashedNamePattern = regexp.MustCompile(`#(\w+)`)
)

// SessionService enumerates gateway sessions by probing the known session
// keys: one main session per agent plus one per configured channel.
type SessionService struct {
	client  *gateway.Client
	catalog *config.Catalog
}

// NewSessionService creates a session service for the given catalog.
func NewSessionService(client *gateway.Client, catalog *config.Catalog) *SessionService {
	return &SessionService{client: client, catalog: catalog}
}

// rawSession mirrors the sessions_list tool's session record.
type rawSession struct {
	Key           string          `json:"key"`
	Kind          string          `json:"kind"`
	Channel       string          `json:"channel"`
	DisplayName   string          `json:"displayName"`
	Model         string          `json:"model"`
	TotalTokens   int64           `json:"totalTokens"`
	ContextTokens int64           `json:"contextTokens"`
	UpdatedAt     int64           `json:"updatedAt"`
	SessionID     string          `json:"sessionId"`
	Messages      []json.RawMessage `json:"messages"`
}

type probeTarget struct {
	key  string
	name string
}

// List probes every known session key in parallel, deduplicates by the key
// the gateway resolved, and returns the summaries newest-first. A failed
// probe drops that entry silently; the listing itself never fails on a
// single probe.
func (s *SessionService) List(ctx context.Context) []models.Session {
	targets := make([]probeTarget, 0, len(s.catalog.Agents)*(len(s.catalog.Channels)+1))
	for _, agent := range s.catalog.Agents {
		targets = append(targets, probeTarget{key: fmt.Sprintf("agent:%s:main", agent)})
		for _, ch := range s.catalog.Channels {
			targets = append(targets, probeTarget{
				key:  fmt.Sprintf("agent:%s:discord:channel:%s", agent, ch.ID),
				name: ch.Name,
			})
		}
	}

	var (
		mu       sync.Mutex
		seen     = make(map[string]bool)
		sessions []models.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			var raw *rawSession
			// a panicking probe drops its entry like a failing one
			_ = recovery.Safe("session probe "+target.key, func() error {
				raw = s.probeSession(gctx, target.key)
				return nil
			})
			if raw == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[raw.Key] {
				return nil
			}
			seen[raw.Key] = true
			sessions = append(sessions, normalizeSession(*raw, target.name))
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt > sessions[j].UpdatedAt
	})
	return sessions
}

// probeSession asks for the single most recent session visible under one
// session key. Any failure is absorbed into a nil result.
func (s *SessionService) probeSession(ctx context.Context, sessionKey string) *rawSession {
	result, err := s.client.Invoke(ctx, "sessions_list", map[string]any{
		"limit":         1,
		"messageLimit":  1,
		"activeMinutes": 43200,
	}, sessionKey)
	if err != nil {
		logger.Debugf("session probe failed for %s: %v", sessionKey, err)
		return nil
	}

	wrapper, ok := result.(map[string]any)
	if !ok || wrapper["sessions"] == nil {
		return nil
	}
	data, err := json.Marshal(wrapper["sessions"])
	if err != nil {
		return nil
	}
	var raws []rawSession
	if err := json.Unmarshal(data, &raws); err != nil || len(raws) == 0 {
		return nil
	}
	return &raws[0]
}

func normalizeSession(s rawSession, knownChannelName string) models.Session {
	channelName := knownChannelName
	if channelName == "" {
		channelName = s.DisplayName
		if m := hashedNamePattern.FindStringSubmatch(s.DisplayName); m != nil {
			channelName = m[1]
		}
		if channelName == "" {
			channelName = s.Key
		}
	}

	agent := "unknown"
	if m := agentKeyPattern.FindStringSubmatch(s.Key); m != nil {
		agent = m[1]
	}

	lastMessage, lastTimestamp := extractLastMessage(s.Messages)
	if len(lastMessage) > sessionPreviewLength {
		lastMessage = lastMessage[:sessionPreviewLength]
	}

	channel := s.Channel
	if channel == "" {
		channel = "unknown"
	}
	model := s.Model
	if model == "" {
		model = "unknown"
	}
	display := s.DisplayName
	if display == "" {
		display = s.Key
	}

	updatedAt := ""
	if s.UpdatedAt > 0 {
		updatedAt = time.UnixMilli(s.UpdatedAt).UTC().Format(time.RFC3339)
	}

	return models.Session{
		Key:           s.Key,
		Kind:          s.Kind,
		Channel:       channel,
		ChannelName:   channelName,
		DisplayName:   display,
		Model:         model,
		Agent:         agent,
		TotalTokens:   s.TotalTokens,
		ContextTokens: s.ContextTokens,
		UpdatedAt:     updatedAt,
		LastMessage:   lastMessage,
		LastTimestamp: lastTimestamp,
		SessionID:     s.SessionID,
	}
}

// extractLastMessage handles both string and content-block message bodies.
func extractLastMessage(messages []json.RawMessage) (text, timestamp string) {
	if len(messages) == 0 {
		return "", ""
	}

	var msg struct {
		Timestamp int64           `json:"timestamp"`
		Content   json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(messages[0], &msg); err != nil {
		return "", ""
	}
	if msg.Timestamp > 0 {
		timestamp = time.UnixMilli(msg.Timestamp).UTC().Format(time.RFC3339)
	}

	var plain string
	if err := json.Unmarshal(msg.Content, &plain); err == nil {
		return plain, timestamp
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(msg.Content, &blocks); err == nil {
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				return b.Text, timestamp
			}
		}
	}
	return "", timestamp
}
