package models

// Session summarizes one gateway session for the conversations list.
type Session struct {
	Key           string `json:"key"`
	Kind          string `json:"kind,omitempty"`
	Channel       string `json:"channel"`
	ChannelName   string `json:"channelName"`
	DisplayName   string `json:"displayName"`
	Model         string `json:"model"`
	Agent         string `json:"agent"`
	TotalTokens   int64  `json:"totalTokens"`
	ContextTokens int64  `json:"contextTokens"`
	UpdatedAt     string `json:"updatedAt"`
	LastMessage   string `json:"lastMessage"`
	LastTimestamp string `json:"lastTimestamp"`
	SessionID     string `json:"sessionId,omitempty"`
}
