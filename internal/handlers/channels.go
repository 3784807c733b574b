package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// ChannelsHandler exposes channels, messages, terminal history and chat
type ChannelsHandler struct {
	channels *services.ChannelService
	messages *services.MessageService
	history  *services.HistoryService
	chat     *services.ChatService
}

// NewChannelsHandler creates a new channels handler
func NewChannelsHandler(channels *services.ChannelService, messages *services.MessageService, history *services.HistoryService, chat *services.ChatService) *ChannelsHandler {
	return &ChannelsHandler{channels: channels, messages: messages, history: history, chat: chat}
}

// ListChannels returns the channel catalog with activity probes
// @Summary List channels
// @Produce json
// @Param probe query bool false "Probe each channel for its latest message (default true)"
// @Success 200 {array} models.Channel
// @Router /api/channels [get]
func (h *ChannelsHandler) ListChannels(c *fiber.Ctx) error {
	probe := c.Query("probe") != "false"
	return c.JSON(h.channels.List(c.Context(), probe))
}

// ListMessages reads a channel's messages, oldest-first
// @Summary Read channel messages
// @Produce json
// @Param channelId query string true "Channel id"
// @Param limit query int false "Message count (default 30)"
// @Param before query string false "Read messages before this message id"
// @Success 200 {array} models.Message
// @Failure 400 {object} map[string]string
// @Router /api/channels/messages [get]
func (h *ChannelsHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.messages.List(
		c.Context(),
		c.Query("channelId"),
		c.QueryInt("limit", 30),
		c.Query("before"),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(messages)
}

// TerminalHistory reads the terminal session transcript
// @Summary Read terminal history
// @Produce json
// @Param limit query int false "Message count (default 30)"
// @Success 200 {array} models.Message
// @Router /api/channels/tui-history [get]
func (h *ChannelsHandler) TerminalHistory(c *fiber.Ctx) error {
	messages, err := h.history.List(c.QueryInt("limit", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(messages)
}

// Chat handles one chat submission: slash commands locally, everything else
// forwarded to the channel
// @Summary Send a chat message
// @Accept json
// @Produce json
// @Param body body map[string]string true "Object with 'channelId' and 'message'"
// @Success 200 {object} services.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/channels/chat [post]
func (h *ChannelsHandler) Chat(c *fiber.Ctx) error {
	var payload struct {
		ChannelID string `json:"channelId"`
		Message   string `json:"message"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	response, err := h.chat.Send(c.Context(), payload.ChannelID, payload.Message)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(response)
}
