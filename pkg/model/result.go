package model

import "time"

// StepStatus - per step outcome reported by a preflight or a job
type StepStatus string

// StepStatus values
const (
	StepOK       StepStatus = "ok"
	StepError    StepStatus = "error"
	StepWarn     StepStatus = "warn"
	StepOptional StepStatus = "optional"
	StepSkip     StepStatus = "skip"
	StepHide     StepStatus = "hide"
)

// PlanResultKey - results key holding plan level messages
const PlanResultKey = "plan"

// StepResult -
type StepResult struct {
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
	Logs    string     `json:"logs,omitempty"`
}

// Results - ordered results per step id
type Results map[string][]StepResult

// Has - true when any result recorded for the step carries the status
func (r Results) Has(stepID string, status StepStatus) bool {
	for _, res := range r[stepID] {
		if res.Status == status {
			return true
		}
	}
	return false
}

// Recorded - true when at least one result exists for the step
func (r Results) Recorded(stepID string) bool {
	return len(r[stepID]) > 0
}

// Status - lifecycle of a preflight or a job
type Status string

// Status values
const (
	StatusStarted  Status = "started"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsTerminal -
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusCanceled
}

// Preflight - result of a pre-install validation run
type Preflight struct {
	ID           string    `json:"id"`
	Plan         string    `json:"plan"`
	User         string    `json:"user"`
	OrgID        string    `json:"org_id"`
	Status       Status    `json:"status"`
	IsValid      bool      `json:"is_valid"`
	IsReady      bool      `json:"is_ready"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Results      Results   `json:"results"`
	EditedAt     time.Time `json:"edited_at"`
}

// NewerThan - last write wins between two snapshots of the same entity
func (p *Preflight) NewerThan(other *Preflight) bool {
	return other == nil || !p.EditedAt.Before(other.EditedAt)
}

// Expired - complete preflights stop being valid after the configured lifetime
func (p *Preflight) Expired(now time.Time, lifetime time.Duration) bool {
	if lifetime <= 0 || p.Status != StatusComplete || p.EditedAt.IsZero() {
		return false
	}
	return now.Sub(p.EditedAt) > lifetime
}
