// Package state holds the dashboard application state as one serializable
// struct with a single reducer-style update entry point. All mutation goes
// through Apply, which returns a new state and never modifies its input.
package state

import "github.com/marcobit/clawcrm/internal/models"

// View names one dashboard screen.
type View string

// Dashboard views
const (
	ViewChannels View = "channels"
	ViewSessions View = "sessions"
	ViewCron     View = "cron"
	ViewSkills   View = "skills"
	ViewFiles    View = "files"
	ViewConfig   View = "config"
)

// AppState is the one source of truth for the dashboard loop.
type AppState struct {
	View            View                   `json:"view"`
	SelectedChannel string                 `json:"selectedChannel"`
	Channels        []models.Channel       `json:"channels,omitempty"`
	Messages        []models.Message       `json:"messages,omitempty"`
	Jobs            []models.CronJob       `json:"jobs,omitempty"`
	Sessions        []models.Session       `json:"sessions,omitempty"`
	Skills          []models.Skill         `json:"skills,omitempty"`
	Files           []models.WorkspaceFile `json:"files,omitempty"`
	Status          *models.GatewayStatus  `json:"status,omitempty"`
	Config          any                    `json:"config,omitempty"`
	Expand          map[string]bool        `json:"expand,omitempty"`
	LastError       string                 `json:"lastError,omitempty"`
}

// New returns the initial state: channels view, terminal channel selected,
// config tree collapsed to the root.
func New() AppState {
	return AppState{
		View:            ViewChannels,
		SelectedChannel: models.TerminalChannelID,
		Expand:          map[string]bool{"$": true},
	}
}

// Action is one state transition. The concrete types below are the complete
// set; Apply ignores anything else.
type Action interface{ isAction() }

// SwitchView changes the active screen.
type SwitchView struct{ View View }

// SelectChannel changes the active channel and drops the loaded messages.
type SelectChannel struct{ ChannelID string }

// LoadChannels replaces the channel list.
type LoadChannels struct{ Channels []models.Channel }

// LoadMessages replaces the message list for the selected channel.
type LoadMessages struct{ Messages []models.Message }

// AppendMessage adds one message to the end of the list.
type AppendMessage struct{ Message models.Message }

// ClearMessages empties the chat display.
type ClearMessages struct{}

// LoadJobs replaces the cron job list.
type LoadJobs struct{ Jobs []models.CronJob }

// LoadSessions replaces the session list.
type LoadSessions struct{ Sessions []models.Session }

// LoadSkills replaces the skill list.
type LoadSkills struct{ Skills []models.Skill }

// LoadFiles replaces the workspace file list.
type LoadFiles struct{ Files []models.WorkspaceFile }

// LoadStatus replaces the gateway status.
type LoadStatus struct{ Status models.GatewayStatus }

// LoadConfig replaces the redacted config document and resets expansion.
type LoadConfig struct{ Config any }

// ToggleNode flips one JSON tree node's expansion.
type ToggleNode struct{ Path string }

// Fail records a non-fatal error for the status line.
type Fail struct{ Message string }

// ClearError clears the status line.
type ClearError struct{}

func (SwitchView) isAction()    {}
func (SelectChannel) isAction() {}
func (LoadChannels) isAction()  {}
func (LoadMessages) isAction()  {}
func (AppendMessage) isAction() {}
func (ClearMessages) isAction() {}
func (LoadJobs) isAction()      {}
func (LoadSessions) isAction()  {}
func (LoadSkills) isAction()    {}
func (LoadFiles) isAction()     {}
func (LoadStatus) isAction()    {}
func (LoadConfig) isAction()    {}
func (ToggleNode) isAction()    {}
func (Fail) isAction()          {}
func (ClearError) isAction()    {}

// Apply reduces one action into a new state. The input state is not
// modified; shared slices are replaced wholesale, the expand map is copied
// before the single toggled key changes.
func Apply(s AppState, a Action) AppState {
	switch a := a.(type) {
	case SwitchView:
		s.View = a.View
	case SelectChannel:
		if a.ChannelID != s.SelectedChannel {
			s.SelectedChannel = a.ChannelID
			s.Messages = nil
		}
	case LoadChannels:
		s.Channels = a.Channels
	case LoadMessages:
		s.Messages = a.Messages
	case AppendMessage:
		messages := make([]models.Message, 0, len(s.Messages)+1)
		messages = append(messages, s.Messages...)
		s.Messages = append(messages, a.Message)
	case ClearMessages:
		s.Messages = nil
	case LoadJobs:
		s.Jobs = a.Jobs
	case LoadSessions:
		s.Sessions = a.Sessions
	case LoadSkills:
		s.Skills = a.Skills
	case LoadFiles:
		s.Files = a.Files
	case LoadStatus:
		status := a.Status
		s.Status = &status
	case LoadConfig:
		s.Config = a.Config
		s.Expand = map[string]bool{"$": true}
	case ToggleNode:
		expand := make(map[string]bool, len(s.Expand)+1)
		for k, v := range s.Expand {
			expand[k] = v
		}
		expand[a.Path] = !expand[a.Path]
		s.Expand = expand
	case Fail:
		s.LastError = a.Message
	case ClearError:
		s.LastError = ""
	}
	return s
}
