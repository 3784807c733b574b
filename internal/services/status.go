package services

import (
	"context"
	"strings"

	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/models"
)

// StatusService merges independent signals into one gateway status: the
// reachability probe and fields derived from the config document. Each
// sub-probe failure is absorbed and leaves its fields at defaults; the
// status call itself never fails.
type StatusService struct {
	client *gateway.Client
	config *ConfigService
	port   int
}

// NewStatusService creates a status service.
func NewStatusService(client *gateway.Client, config *ConfigService, port int) *StatusService {
	return &StatusService{client: client, config: config, port: port}
}

// Get returns the merged status. Always succeeds.
func (s *StatusService) Get(ctx context.Context) models.GatewayStatus {
	status := models.GatewayStatus{
		Version:  "unknown",
		Model:    "unknown",
		Provider: "unknown",
		Port:     s.port,
	}

	online, version := s.client.Health(ctx)
	status.Online = online
	if version != "" {
		status.Version = version
	}

	doc, err := s.config.readRaw()
	if err != nil {
		logger.Debugf("status config probe failed: %v", err)
		return status
	}
	applyConfigFields(&status, doc)
	return status
}

func applyConfigFields(status *models.GatewayStatus, doc map[string]any) {
	if model, ok := lookupString(doc, "model", "default"); ok {
		status.Model = model
		// Models follow the "provider/model-name" convention
		if idx := strings.Index(model, "/"); idx > 0 {
			status.Provider = model[:idx]
			status.Model = model[idx+1:]
		}
	}

	if version, ok := lookupString(doc, "meta", "lastTouchedByVersion"); ok {
		status.Version = version
	}

	if agents, ok := lookupMap(doc, "agents"); ok {
		agentModels := make(map[string]string, len(agents))
		for name, raw := range agents {
			agent, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if model, ok := agent["model"].(string); ok && model != "" {
				agentModels[name] = model
			}
		}
		if len(agentModels) > 0 {
			status.AgentModels = agentModels
		}
	}

	if guilds, ok := lookupMap(doc, "discord", "guilds"); ok {
		count := 0
		for _, raw := range guilds {
			guild, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if channels, ok := guild["channels"].(map[string]any); ok {
				count += len(channels)
			}
		}
		status.ChannelCount = count
	}
}

func lookupMap(doc map[string]any, path ...string) (map[string]any, bool) {
	current := doc
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func lookupString(doc map[string]any, path ...string) (string, bool) {
	parent, ok := lookupMap(doc, path[:len(path)-1]...)
	if !ok {
		return "", false
	}
	value, ok := parent[path[len(path)-1]].(string)
	return value, ok && value != ""
}
