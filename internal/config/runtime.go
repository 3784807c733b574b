package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Runtime holds the resolved paths and gateway endpoint for one server
// process. Everything is derived from the OpenClaw home directory plus
// environment overrides; nothing here is persisted.
type Runtime struct {
	// Gateway endpoint
	GatewayBaseURL string
	GatewayToken   string
	GatewayPort    int

	// Gateway-owned files read directly
	HomeDir      string // ~/.openclaw
	WorkspaceDir string // <home>/workspace
	CronJobsPath string // <home>/cron/jobs.json
	ConfigPath   string // <home>/openclaw.json
	AgentsDir    string // <home>/agents

	// Skill catalog locations, scanned in order
	SkillDirs []string

	// Facade listen address
	ListenAddr string
	// Optional bearer token required on facade requests
	FacadeToken string

	// Channel catalog file (YAML), optional
	ChannelsPath string
}

const defaultGatewayPort = 18789

// Detect builds the runtime configuration from the environment.
func Detect() *Runtime {
	home := os.Getenv("OPENCLAW_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			userHome = "."
		}
		home = filepath.Join(userHome, ".openclaw")
	}

	port := defaultGatewayPort
	if v := os.Getenv("OPENCLAW_GATEWAY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			port = p
		}
	}

	base := os.Getenv("OPENCLAW_GATEWAY_URL")
	if base == "" {
		base = "http://127.0.0.1:" + strconv.Itoa(port)
	}

	listen := os.Getenv("CLAWCRM_ADDR")
	if listen == "" {
		listen = ":3000"
	}

	r := &Runtime{
		GatewayBaseURL: base,
		GatewayToken:   os.Getenv("OPENCLAW_GATEWAY_TOKEN"),
		GatewayPort:    port,
		HomeDir:        home,
		WorkspaceDir:   filepath.Join(home, "workspace"),
		CronJobsPath:   filepath.Join(home, "cron", "jobs.json"),
		ConfigPath:     filepath.Join(home, "openclaw.json"),
		AgentsDir:      filepath.Join(home, "agents"),
		ListenAddr:     listen,
		FacadeToken:    os.Getenv("CLAWCRM_TOKEN"),
		ChannelsPath:   filepath.Join(home, "crm", "channels.yaml"),
	}

	r.SkillDirs = []string{
		filepath.Join(r.WorkspaceDir, "skills"),
	}
	if userHome, err := os.UserHomeDir(); err == nil {
		r.SkillDirs = append(r.SkillDirs, filepath.Join(userHome, ".agents", "skills"))
	}
	if extra := os.Getenv("CLAWCRM_SKILL_DIRS"); extra != "" {
		r.SkillDirs = append(filepath.SplitList(extra), r.SkillDirs...)
	}

	return r
}
