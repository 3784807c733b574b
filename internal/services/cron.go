package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/marcobit/clawcrm/internal/gateway"
	"github.com/marcobit/clawcrm/internal/logger"
	"github.com/marcobit/clawcrm/internal/models"
)

// CronService lists and mutates the gateway's cron jobs. The tool-invocation
// path is canonical; when the gateway is unreachable it falls back to reading
// the jobs file directly.
type CronService struct {
	client   *gateway.Client
	jobsPath string
}

// NewCronService creates a cron service backed by the given gateway client
// and jobs file path.
func NewCronService(client *gateway.Client, jobsPath string) *CronService {
	return &CronService{client: client, jobsPath: jobsPath}
}

// rawJob mirrors the gateway's on-disk/tool job record.
type rawJob struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Enabled  *bool                `json:"enabled"`
	Schedule *models.CronSchedule `json:"schedule"`
	State    struct {
		LastRunAtMs       int64  `json:"lastRunAtMs"`
		NextRunAtMs       int64  `json:"nextRunAtMs"`
		LastStatus        string `json:"lastStatus"`
		LastDurationMs    int64  `json:"lastDurationMs"`
		LastError         string `json:"lastError"`
		ConsecutiveErrors int    `json:"consecutiveErrors"`
	} `json:"state"`
	Payload       json.RawMessage `json:"payload"`
	SessionTarget string          `json:"sessionTarget"`
	AgentID       string          `json:"agentId"`
	UpdatedAtMs   int64           `json:"updatedAtMs"`
}

type jobsDocument struct {
	Jobs []json.RawMessage `json:"jobs"`
}

// List returns all jobs, disabled ones included, normalized for the UI.
func (s *CronService) List(ctx context.Context) ([]models.CronJob, error) {
	raw, err := s.client.Invoke(ctx, "cron", map[string]any{
		"action":          "list",
		"includeDisabled": true,
	}, "")
	if err != nil {
		if gwErr, ok := err.(*gateway.Error); ok && gwErr.Kind == gateway.ErrKindUnreachable {
			logger.Debugf("gateway unreachable, listing cron jobs from %s", s.jobsPath)
			return s.listFromFile()
		}
		return nil, errUnavailable(err.Error())
	}

	jobs, err := decodeJobs(raw)
	if err != nil {
		return nil, errUnavailable(err.Error())
	}

	views := make([]models.CronJob, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, normalizeJob(j))
	}
	return views, nil
}

// listFromFile is the fallback path: read the jobs document the scheduler
// owns. Jobs missing a computed next run get one estimated locally.
func (s *CronService) listFromFile() ([]models.CronJob, error) {
	data, err := os.ReadFile(s.jobsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.CronJob{}, nil
		}
		return nil, errUnavailable(fmt.Sprintf("failed to read jobs file: %v", err))
	}

	var doc jobsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errUnavailable(fmt.Sprintf("failed to parse jobs file: %v", err))
	}

	views := make([]models.CronJob, 0, len(doc.Jobs))
	for _, rawMsg := range doc.Jobs {
		var j rawJob
		if err := json.Unmarshal(rawMsg, &j); err != nil {
			continue
		}
		view := normalizeJob(j)
		if view.NextRun == nil && view.Enabled {
			view.NextRun = estimateNextRun(j.Schedule)
		}
		views = append(views, view)
	}
	return views, nil
}

// decodeJobs absorbs the duck-typed shapes the cron tool may return: a bare
// array or an object wrapping it under "jobs".
func decodeJobs(result any) ([]rawJob, error) {
	if result == nil {
		return nil, nil
	}

	var list any
	switch v := result.(type) {
	case []any:
		list = v
	case map[string]any:
		list = v["jobs"]
	default:
		return nil, fmt.Errorf("unexpected cron list shape %T", result)
	}
	if list == nil {
		return nil, nil
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	var jobs []rawJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode cron jobs: %w", err)
	}
	return jobs, nil
}

func normalizeJob(j rawJob) models.CronJob {
	enabled := j.Enabled == nil || *j.Enabled

	status := models.CronStatusActive
	if !enabled {
		status = models.CronStatusDisabled
	} else if j.State.ConsecutiveErrors > 0 {
		status = models.CronStatusError
	}

	name := j.Name
	if name == "" {
		name = "Unnamed"
	}

	model := ""
	if len(j.Payload) > 0 {
		var payload struct {
			Model string `json:"model"`
		}
		if err := json.Unmarshal(j.Payload, &payload); err == nil {
			model = payload.Model
		}
	}

	return models.CronJob{
		ID:                j.ID,
		Name:              name,
		Schedule:          FormatSchedule(j.Schedule),
		ScheduleRaw:       j.Schedule,
		Enabled:           enabled,
		Status:            status,
		LastRun:           msToISO(j.State.LastRunAtMs),
		NextRun:           msToISO(j.State.NextRunAtMs),
		LastStatus:        j.State.LastStatus,
		LastDurationMs:    j.State.LastDurationMs,
		LastError:         j.State.LastError,
		ConsecutiveErrors: j.State.ConsecutiveErrors,
		Payload:           j.Payload,
		SessionTarget:     j.SessionTarget,
		Model:             model,
		AgentID:           j.AgentID,
	}
}

// FormatSchedule renders a schedule record for humans. Interval schedules
// use the largest whole unit that fits the duration.
func FormatSchedule(s *models.CronSchedule) string {
	if s == nil {
		return "unknown"
	}
	switch s.Kind {
	case "cron":
		if s.TZ != "" {
			return fmt.Sprintf("%s (%s)", s.Expr, s.TZ)
		}
		return s.Expr
	case "every":
		ms := s.EveryMs
		switch {
		case ms >= 86400000:
			return fmt.Sprintf("every %dd", ms/86400000)
		case ms >= 3600000:
			return fmt.Sprintf("every %dh", ms/3600000)
		case ms >= 60000:
			return fmt.Sprintf("every %dmin", ms/60000)
		default:
			return fmt.Sprintf("every %dms", ms)
		}
	case "at":
		return "once at " + time.UnixMilli(s.At).Local().Format("Jan 2, 2006 15:04")
	default:
		dump, err := json.Marshal(s)
		if err != nil {
			return "unknown"
		}
		return string(dump)
	}
}

// estimateNextRun computes the next firing of a cron-expression schedule.
// Only used on the file-fallback path when the scheduler has not written a
// next-run timestamp itself.
func estimateNextRun(s *models.CronSchedule) *string {
	if s == nil || s.Kind != "cron" || s.Expr == "" {
		return nil
	}
	expr := s.Expr
	if s.TZ != "" {
		expr = "CRON_TZ=" + s.TZ + " " + expr
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil
	}
	next := sched.Next(time.Now()).UTC().Format(time.RFC3339)
	return &next
}

func msToISO(ms int64) *string {
	if ms <= 0 {
		return nil
	}
	iso := time.UnixMilli(ms).UTC().Format(time.RFC3339)
	return &iso
}

// Toggle flips a job's enabled flag in the jobs file and returns the new
// state. This is a plain read-modify-write: there is no file lock or version
// token, so concurrent toggles race and the last write wins.
func (s *CronService) Toggle(id string) (bool, error) {
	if id == "" {
		return false, errInput("id required")
	}

	data, err := os.ReadFile(s.jobsPath)
	if err != nil {
		return false, errUnavailable(fmt.Sprintf("failed to read jobs file: %v", err))
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, errUnavailable(fmt.Sprintf("failed to parse jobs file: %v", err))
	}

	jobs, _ := doc["jobs"].([]any)
	for _, entry := range jobs {
		job, ok := entry.(map[string]any)
		if !ok || job["id"] != id {
			continue
		}

		enabled, _ := job["enabled"].(bool)
		if _, present := job["enabled"]; !present {
			enabled = true
		}
		job["enabled"] = !enabled
		job["updatedAtMs"] = time.Now().UnixMilli()

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return false, errUnavailable(fmt.Sprintf("failed to encode jobs file: %v", err))
		}
		if err := os.WriteFile(s.jobsPath, out, 0o644); err != nil {
			return false, errUnavailable(fmt.Sprintf("failed to write jobs file: %v", err))
		}
		return !enabled, nil
	}

	return false, errNotFound("Job not found")
}

// Trigger asks the gateway to run a job now. It acknowledges dispatch only
// and does not wait for the run to finish.
func (s *CronService) Trigger(ctx context.Context, id string) error {
	if id == "" {
		return errInput("id required")
	}
	if _, err := s.client.Invoke(ctx, "cron", map[string]any{"action": "run", "id": id}, ""); err != nil {
		return errUnavailable(err.Error())
	}
	return nil
}
