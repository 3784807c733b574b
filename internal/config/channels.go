package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ChannelEntry describes one known gateway channel from the catalog file.
type ChannelEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Emoji string `yaml:"emoji"`
	Model string `yaml:"model"`
}

// Catalog is the channel/agent catalog the dashboard is configured with.
// The gateway owns the real channel topology; this file just names the
// channels the dashboard should surface.
type Catalog struct {
	Agents   []string       `yaml:"agents"`
	Channels []ChannelEntry `yaml:"channels"`
}

// LoadCatalog reads the YAML channel catalog. A missing file is not an
// error: the dashboard then only shows the synthetic terminal channel.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{Agents: []string{"main"}}, nil
		}
		return nil, fmt.Errorf("failed to read channel catalog: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse channel catalog: %w", err)
	}
	if len(cat.Agents) == 0 {
		cat.Agents = []string{"main"}
	}
	for i := range cat.Channels {
		if cat.Channels[i].Type == "" {
			cat.Channels[i].Type = "discord"
		}
	}
	return &cat, nil
}
