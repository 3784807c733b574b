package services

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/marcobit/clawcrm/internal/models"
)

const assistantTextLimit = 3000

// Metadata blocks the gateway prepends to relayed user messages. They are
// stripped before the text reaches the UI.
var metadataBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile("Conversation info \\(untrusted metadata\\):[\\s\\S]*?```\n\n"),
	regexp.MustCompile("Sender \\(untrusted metadata\\):[\\s\\S]*?```\n\n"),
}

// HistoryService reads the terminal session transcript the gateway writes as
// JSONL, one entry per line.
type HistoryService struct {
	agentsDir string
	agents    []string
	botName   string
}

// NewHistoryService creates a history service over the agents directory.
func NewHistoryService(agentsDir string, agents []string, botName string) *HistoryService {
	if botName == "" {
		botName = "assistant"
	}
	return &HistoryService{agentsDir: agentsDir, agents: agents, botName: botName}
}

// List returns the last limit normalized messages from the most recent
// transcript. A missing transcript yields an empty list rather than an
// error.
func (s *HistoryService) List(limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 30
	}

	path := s.findTranscript()
	if path == "" {
		return []models.Message{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return []models.Message{}, nil
	}
	defer file.Close()

	var messages []models.Message
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if msg, ok := s.parseTranscriptLine(line, len(messages)); ok {
			messages = append(messages, msg)
		}
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// findTranscript picks the newest transcript across the configured agents.
func (s *HistoryService) findTranscript() string {
	var newestPath string
	var newestMod time.Time

	for _, agent := range s.agents {
		dir := filepath.Join(s.agentsDir, agent, "sessions")
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(newestMod) {
				newestMod = info.ModTime()
				newestPath = filepath.Join(dir, entry.Name())
			}
		}
	}
	return newestPath
}

type transcriptEntry struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

func (s *HistoryService) parseTranscriptLine(line string, index int) (models.Message, bool) {
	var entry transcriptEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return models.Message{}, false
	}
	if entry.Type != "message" || entry.Message == nil {
		return models.Message{}, false
	}

	role := entry.Message.Role
	if role == "system" || role == "tool" {
		return models.Message{}, false
	}

	text := extractContentText(entry.Message.Content)
	if role == "user" {
		for _, pattern := range metadataBlockPatterns {
			if loc := pattern.FindStringIndex(text); loc != nil {
				text = text[loc[1]:]
			}
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, false
	}

	isBot := role == "assistant"
	if isBot && len(text) > assistantTextLimit {
		text = text[:assistantTextLimit] + "\n\n[... truncated]"
	}

	id := entry.ID
	if id == "" {
		id = "tui-" + strconv.Itoa(index)
	}
	timestamp := entry.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	author := models.Author{ID: "user", Username: "user", DisplayName: "user"}
	if isBot {
		author = models.Author{ID: "bot", Username: s.botName, DisplayName: s.botName, Bot: true}
	}

	return models.Message{
		ID:          id,
		Content:     text,
		Timestamp:   timestamp,
		Author:      author,
		Attachments: []models.Attachment{},
	}, true
}

func extractContentText(raw json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
