package model

import "time"

// Creator - the user who started a job, absent for scratch org jobs
type Creator struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// Job - one execution of a plan's steps against an org
type Job struct {
	ID           string     `json:"id"`
	Plan         string     `json:"plan"`
	Steps        []string   `json:"steps"`
	Status       Status     `json:"status"`
	Results      Results    `json:"results"`
	IsPublic     bool       `json:"is_public"`
	UserCanEdit  bool       `json:"user_can_edit"`
	Creator      *Creator   `json:"creator"`
	OrgID        string     `json:"org_id"`
	OrgType      string     `json:"org_type"`
	ErrorCount   int        `json:"error_count"`
	WarningCount int        `json:"warning_count"`
	ErrorMessage string     `json:"error_message"`
	ProductSlug  string     `json:"product_slug"`
	VersionLabel string     `json:"version_label"`
	PlanSlug     string     `json:"plan_slug"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     time.Time  `json:"edited_at"`
	EnqueuedAt   *time.Time `json:"enqueued_at"`
}

// NewerThan - last write wins between two snapshots of the same entity
func (j *Job) NewerThan(other *Job) bool {
	return other == nil || !j.EditedAt.Before(other.EditedAt)
}

// IncludesStep - false when the server dropped the step at start time
func (j *Job) IncludesStep(stepID string) bool {
	return contains(j.Steps, stepID)
}

// IsScratchOrgJob - jobs without a creator ran in a scratch org
func (j *Job) IsScratchOrgJob() bool {
	return j.Creator == nil
}
