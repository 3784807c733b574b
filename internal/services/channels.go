package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/marcobit/clawcrm/internal/config"
	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/models"
	"github.com/marcobit/clawcrm/internal/recovery"
)

const previewLength = 60

// ChannelService lists the configured channel catalog, enriched with a
// best-effort probe of each channel's most recent message.
type ChannelService struct {
	client  *gateway.Client
	catalog *config.Catalog
}

// NewChannelService creates a channel service for the given catalog.
func NewChannelService(client *gateway.Client, catalog *config.Catalog) *ChannelService {
	return &ChannelService{client: client, catalog: catalog}
}

// List returns all known channels, terminal channel first. When probing is
// enabled each catalog channel is probed in parallel for its latest message;
// a failed probe degrades that channel to inactive instead of failing the
// whole listing.
func (s *ChannelService) List(ctx context.Context, probe bool) []models.Channel {
	channels := make([]models.Channel, len(s.catalog.Channels))

	if probe {
		g, gctx := errgroup.WithContext(ctx)
		for i, entry := range s.catalog.Channels {
			g.Go(func() error {
				channels[i] = catalogChannel(entry)
				// a panicking probe degrades like a failing one
				_ = recovery.Safe("channel probe "+entry.ID, func() error {
					channels[i] = s.probeChannel(gctx, entry)
					return nil
				})
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, entry := range s.catalog.Channels {
			channels[i] = catalogChannel(entry)
			channels[i].Active = true
		}
	}

	result := make([]models.Channel, 0, len(channels)+1)
	result = append(result, models.Channel{
		ID:     models.TerminalChannelID,
		Name:   "Terminal (TUI)",
		Type:   "webchat",
		Emoji:  "🖥️",
		Model:  s.defaultAgent(),
		Active: true,
	})
	return append(result, channels...)
}

func (s *ChannelService) defaultAgent() string {
	if len(s.catalog.Agents) > 0 {
		return s.catalog.Agents[0]
	}
	return "main"
}

func catalogChannel(entry config.ChannelEntry) models.Channel {
	return models.Channel{
		ID:    entry.ID,
		Name:  entry.Name,
		Type:  entry.Type,
		Emoji: entry.Emoji,
		Model: entry.Model,
	}
}

// probeChannel reads a single message to decide whether the channel has
// activity and what to preview. Any failure yields an inactive channel.
func (s *ChannelService) probeChannel(ctx context.Context, entry config.ChannelEntry) models.Channel {
	ch := catalogChannel(entry)

	result, err := s.client.Invoke(ctx, "message", map[string]any{
		"action":  "read",
		"channel": "discord",
		"target":  entry.ID,
		"limit":   1,
	}, "")
	if err != nil {
		logger.Debugf("channel probe failed for %s: %v", entry.Name, err)
		return ch
	}

	raws, err := decodeMessages(result)
	if err != nil {
		return ch
	}

	ch.Active = true
	if len(raws) > 0 {
		last := raws[0]
		author := last.Author.GlobalName
		if author == "" {
			author = last.Author.Username
		}
		preview := last.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		if author != "" {
			ch.LastMessage = author + ": " + preview
		} else {
			ch.LastMessage = preview
		}
		ch.LastTime = last.Timestamp
	}
	return ch
}
