package models

// GatewayStatus merges the reachability probe with config-derived fields.
// Every field has a defined default so the status endpoint can answer even
// when the gateway is down and the config is unreadable.
type GatewayStatus struct {
	Online       bool              `json:"online"`
	Version      string            `json:"version"`
	Port         int               `json:"port"`
	Model        string            `json:"model"`
	Provider     string            `json:"provider"`
	AgentModels  map[string]string `json:"agentModels,omitempty"`
	ChannelCount int               `json:"channelCount"`
}
