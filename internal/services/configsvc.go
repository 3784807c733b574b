package services

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// RedactedSentinel replaces secret values before a config document leaves
// this layer. Redaction is irreversible.
const RedactedSentinel = "***REDACTED***"

// secretFieldPattern matches field names by convention, not by a fixed path
// list, so redaction holds even when the document's shape changes.
var secretFieldPattern = regexp.MustCompile(`(?i)(token|api[-_]?key|secret|password|credential)`)

// ConfigService reads the gateway's configuration document and redacts it.
// The config is never mutated through this layer.
type ConfigService struct {
	path string
}

// NewConfigService creates a config service for the given document path.
func NewConfigService(path string) *ConfigService {
	return &ConfigService{path: path}
}

// Get returns the parsed configuration with every secret-bearing field
// replaced by the sentinel.
func (s *ConfigService) Get() (map[string]any, error) {
	doc, err := s.readRaw()
	if err != nil {
		return nil, err
	}
	redacted, _ := Redact(doc).(map[string]any)
	return redacted, nil
}

// readRaw parses the document without redaction. Internal use only; the
// status adapter derives fields from it but never returns it.
func (s *ConfigService) readRaw() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound("Config not found")
		}
		return nil, errUnavailable(fmt.Sprintf("failed to read config: %v", err))
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errUnavailable(fmt.Sprintf("failed to parse config: %v", err))
	}
	return doc, nil
}

// Redact walks an arbitrary JSON value and replaces the value of every
// field whose name matches the secret pattern, at any depth.
func Redact(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if secretFieldPattern.MatchString(key) {
				out[key] = RedactedSentinel
				continue
			}
			out[key] = Redact(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Redact(item)
		}
		return out
	default:
		return value
	}
}
