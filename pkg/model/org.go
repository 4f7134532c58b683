package model

import "time"

// ScratchOrgStatus -
type ScratchOrgStatus string

// ScratchOrgStatus values
const (
	ScratchOrgCreating ScratchOrgStatus = "creating"
	ScratchOrgStarted  ScratchOrgStatus = "started"
	ScratchOrgComplete ScratchOrgStatus = "complete"
	ScratchOrgError    ScratchOrgStatus = "error"
)

// ScratchOrg - an ephemeral org provisioned for a plan
type ScratchOrg struct {
	UUID           string           `json:"uuid"`
	Plan           string           `json:"plan"`
	Status         ScratchOrgStatus `json:"status"`
	OrgID          string           `json:"org_id"`
	Email          string           `json:"email,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	Message        string           `json:"message,omitempty"`
}

// IsReady - the org exists and can receive a preflight or job
func (s *ScratchOrg) IsReady() bool {
	return s.Status == ScratchOrgComplete && s.OrgID != ""
}

// User - the logged in user
type User struct {
	ID            string  `json:"id" yaml:"id"`
	Username      string  `json:"username" yaml:"username"`
	Email         string  `json:"email" yaml:"email"`
	ValidTokenFor *string `json:"valid_token_for" yaml:"valid_token_for"`
	OrgName       string  `json:"org_name" yaml:"org_name"`
	OrgType       string  `json:"org_type" yaml:"org_type"`
	IsStaff       bool    `json:"is_staff" yaml:"is_staff"`
}

// HasValidToken - false once the server invalidated the org token
func (u *User) HasValidToken() bool {
	return u.ValidTokenFor != nil && *u.ValidTokenFor != ""
}

// JobRef - summary of a job running in an org
type JobRef struct {
	ID           string `json:"id"`
	ProductSlug  string `json:"product_slug"`
	VersionLabel string `json:"version_label"`
	PlanSlug     string `json:"plan_slug"`
	PlanTitle    string `json:"plan_title"`
}

// Org - what is currently running in a target org
type Org struct {
	OrgID            string  `json:"org_id"`
	OrgType          string  `json:"org_type"`
	CurrentJob       *JobRef `json:"current_job"`
	CurrentPreflight *string `json:"current_preflight"`
}
