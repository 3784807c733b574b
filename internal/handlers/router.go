package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/middleware"
	"github.com/marcobit/clawcrm/internal/services"
)

// Services bundles the resource adapters the facade exposes.
type Services struct {
	Cron     *services.CronService
	Channels *services.ChannelService
	Messages *services.MessageService
	History  *services.HistoryService
	Sessions *services.SessionService
	Skills   *services.SkillService
	Files    *services.FileService
	Config   *services.ConfigService
	Status   *services.StatusService
	Chat     *services.ChatService
}

// NewServices wires the adapters from runtime configuration.
func NewServices(rt *config.Runtime, catalog *config.Catalog) *Services {
	client := gateway.NewClient(rt.GatewayBaseURL, rt.GatewayToken)

	cron := services.NewCronService(client, rt.CronJobsPath)
	messages := services.NewMessageService(client)
	skills := services.NewSkillService(rt.SkillDirs)
	configSvc := services.NewConfigService(rt.ConfigPath)

	botName := "assistant"
	if len(catalog.Agents) > 0 {
		botName = catalog.Agents[0]
	}

	return &Services{
		Cron:     cron,
		Channels: services.NewChannelService(client, catalog),
		Messages: messages,
		History:  services.NewHistoryService(rt.AgentsDir, catalog.Agents, botName),
		Sessions: services.NewSessionService(client, catalog),
		Skills:   skills,
		Files:    services.NewFileService(rt.WorkspaceDir),
		Config:   configSvc,
		Status:   services.NewStatusService(client, configSvc, rt.GatewayPort),
		Chat:     services.NewChatService(client, messages, cron, skills),
	}
}

// RegisterRoutes mounts every facade endpoint on the app.
func RegisterRoutes(app *fiber.App, svc *Services, auth *middleware.Auth) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", auth.Require)

	files := NewFilesHandler(svc.Files)
	api.Get("/files", files.ListFiles)
	api.Get("/files/*", files.GetFile)
	api.Put("/files/*", files.PutFile)

	skills := NewSkillsHandler(svc.Skills)
	api.Get("/skills", skills.ListSkills)
	api.Get("/skills/:name", skills.GetSkill)

	cron := NewCronHandler(svc.Cron)
	api.Get("/cron", cron.ListJobs)
	api.Post("/cron", cron.Mutate)

	sessions := NewSessionsHandler(svc.Sessions)
	api.Get("/sessions", sessions.ListSessions)

	channels := NewChannelsHandler(svc.Channels, svc.Messages, svc.History, svc.Chat)
	api.Get("/channels", channels.ListChannels)
	api.Get("/channels/messages", channels.ListMessages)
	api.Get("/channels/tui-history", channels.TerminalHistory)
	api.Post("/channels/chat", channels.Chat)

	configHandler := NewConfigHandler(svc.Config, svc.Status)
	api.Get("/config", configHandler.GetConfig)
	api.Get("/status", configHandler.GetStatus)
}
