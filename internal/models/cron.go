package models

import "encoding/json"

// CronStatus is the derived display status of a job.
type CronStatus string

// Cron display statuses
const (
	CronStatusActive   CronStatus = "active"
	CronStatusDisabled CronStatus = "disabled"
	CronStatusError    CronStatus = "error"
)

// CronSchedule is the gateway's schedule record, kept raw alongside the
// humanized form so the UI can show both.
type CronSchedule struct {
	Kind    string `json:"kind"`
	Expr    string `json:"expr,omitempty"`
	TZ      string `json:"tz,omitempty"`
	EveryMs int64  `json:"everyMs,omitempty"`
	At      int64  `json:"at,omitempty"`
}

// CronJob is the normalized view of one gateway cron job. It is built fresh
// on every list request and never cached.
type CronJob struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Schedule          string          `json:"schedule"`
	ScheduleRaw       *CronSchedule   `json:"scheduleRaw,omitempty"`
	Enabled           bool            `json:"enabled"`
	Status            CronStatus      `json:"status"`
	LastRun           *string         `json:"lastRun"`
	NextRun           *string         `json:"nextRun"`
	LastStatus        string          `json:"lastStatus,omitempty"`
	LastDurationMs    int64           `json:"lastDurationMs,omitempty"`
	LastError         string          `json:"lastError,omitempty"`
	ConsecutiveErrors int             `json:"consecutiveErrors"`
	Payload           json.RawMessage `json:"payload,omitempty"`
	SessionTarget     string          `json:"sessionTarget,omitempty"`
	Model             string          `json:"model,omitempty"`
	AgentID           string          `json:"agentId,omitempty"`
}
