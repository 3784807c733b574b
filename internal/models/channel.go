package models

// TerminalChannelID identifies the synthetic local terminal channel. It is
// always present, cannot be removed, and does not support message listing.
const TerminalChannelID = "main"

// Channel is the normalized view of one communication channel.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // "discord" or "webchat"
	Emoji       string `json:"emoji,omitempty"`
	Model       string `json:"model,omitempty"`
	Active      bool   `json:"active"`
	LastMessage string `json:"lastMessage,omitempty"`
	LastTime    string `json:"lastTime,omitempty"`
}

// Author identifies the sender of a message.
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bot         bool   `json:"bot"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// Message is the normalized chat message. Lists of messages are always
// returned oldest-first regardless of the upstream's native ordering.
type Message struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Timestamp   string       `json:"timestamp"`
	Author      Author       `json:"author"`
	Attachments []Attachment `json:"attachments"`
}
