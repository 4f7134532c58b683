package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

// Action - a state change request, applied by the reducers in dispatch order
type Action interface {
	Type() string
}

// ProductsFetched - the product list arrived
type ProductsFetched struct{ Products []*model.Product }

// ProductFetched - a single product lookup finished; nil Product means not found
type ProductFetched struct {
	Slug    string
	Product *model.Product
}

// VersionFetched - nil Version means not found
type VersionFetched struct {
	ProductID string
	Label     string
	Version   *model.Version
}

// PlanFetched - nil Plan means not found
type PlanFetched struct {
	ProductID string
	VersionID string
	Slug      string
	Plan      *model.Plan
}

// AdditionalPlansFetched -
type AdditionalPlansFetched struct {
	ProductID string
	VersionID string
	Plans     []*model.Plan
}

// PreflightFetched - nil Preflight means the plan has none. RequestedAt is when
// the fetch was sent: an empty result only clears a preflight last edited
// before then, a zero RequestedAt never clears one.
type PreflightFetched struct {
	PlanID      string
	Preflight   *model.Preflight
	RequestedAt time.Time
}

// PreflightStarted -
type PreflightStarted struct{ Preflight *model.Preflight }

// PreflightCompleted -
type PreflightCompleted struct{ Preflight *model.Preflight }

// PreflightFailed -
type PreflightFailed struct{ Preflight *model.Preflight }

// PreflightCanceled -
type PreflightCanceled struct{ Preflight *model.Preflight }

// PreflightInvalidated -
type PreflightInvalidated struct{ Preflight *model.Preflight }

// JobFetched - nil Job means not found, RequestedAt as for PreflightFetched
type JobFetched struct {
	JobID       string
	Job         *model.Job
	RequestedAt time.Time
}

// JobStarted -
type JobStarted struct{ Job *model.Job }

// JobStepCompleted -
type JobStepCompleted struct{ Job *model.Job }

// JobCompleted -
type JobCompleted struct{ Job *model.Job }

// JobFailed -
type JobFailed struct{ Job *model.Job }

// JobCanceled -
type JobCanceled struct{ Job *model.Job }

// JobUpdated -
type JobUpdated struct{ Job *model.Job }

// ScratchOrgFetched - nil ScratchOrg means the plan has none
type ScratchOrgFetched struct {
	PlanID     string
	ScratchOrg *model.ScratchOrg
}

// ScratchOrgSpinning -
type ScratchOrgSpinning struct{ ScratchOrg *model.ScratchOrg }

// ScratchOrgCreated -
type ScratchOrgCreated struct{ ScratchOrg *model.ScratchOrg }

// ScratchOrgUpdated -
type ScratchOrgUpdated struct{ ScratchOrg *model.ScratchOrg }

// ScratchOrgError - provisioning failed, the plan's entry becomes absent
type ScratchOrgError struct {
	PlanID  string
	Message string
}

// UserLoggedIn - also used for a fetched user; nil User means logged out
type UserLoggedIn struct{ User *model.User }

// UserLoggedOut -
type UserLoggedOut struct{}

// UserTokenInvalidated -
type UserTokenInvalidated struct{}

// OrgsFetched -
type OrgsFetched struct{ Orgs map[string]*model.Org }

// OrgChanged -
type OrgChanged struct{ Org *model.Org }

// ErrorAdded -
type ErrorAdded struct{ Entry ErrorEntry }

// ErrorRemoved -
type ErrorRemoved struct{ ID string }

// SocketConnected -
type SocketConnected struct{}

// SocketDisconnected -
type SocketDisconnected struct{}

// NewError - an ErrorAdded action with a fresh id
func NewError(message string) ErrorAdded {
	return ErrorAdded{Entry: ErrorEntry{ID: uuid.New().String(), Message: message, At: time.Now()}}
}

func (ProductsFetched) Type() string        { return "PRODUCTS_FETCH_SUCCEEDED" }
func (ProductFetched) Type() string         { return "PRODUCT_FETCH_SUCCEEDED" }
func (VersionFetched) Type() string         { return "VERSION_FETCH_SUCCEEDED" }
func (PlanFetched) Type() string            { return "PLAN_FETCH_SUCCEEDED" }
func (AdditionalPlansFetched) Type() string { return "ADDITIONAL_PLANS_FETCH_SUCCEEDED" }
func (PreflightFetched) Type() string       { return "FETCH_PREFLIGHT_SUCCEEDED" }
func (PreflightStarted) Type() string       { return "PREFLIGHT_STARTED" }
func (PreflightCompleted) Type() string     { return "PREFLIGHT_COMPLETED" }
func (PreflightFailed) Type() string        { return "PREFLIGHT_FAILED" }
func (PreflightCanceled) Type() string      { return "PREFLIGHT_CANCELED" }
func (PreflightInvalidated) Type() string   { return "PREFLIGHT_INVALIDATED" }
func (JobFetched) Type() string             { return "FETCH_JOB_SUCCEEDED" }
func (JobStarted) Type() string             { return "JOB_STARTED" }
func (JobStepCompleted) Type() string       { return "JOB_STEP_COMPLETED" }
func (JobCompleted) Type() string           { return "JOB_COMPLETED" }
func (JobFailed) Type() string              { return "JOB_FAILED" }
func (JobCanceled) Type() string            { return "JOB_CANCELED" }
func (JobUpdated) Type() string             { return "JOB_UPDATED" }
func (ScratchOrgFetched) Type() string      { return "SCRATCH_ORG_FETCH_SUCCEEDED" }
func (ScratchOrgSpinning) Type() string     { return "SCRATCH_ORG_SPINNING" }
func (ScratchOrgCreated) Type() string      { return "SCRATCH_ORG_CREATED" }
func (ScratchOrgUpdated) Type() string      { return "SCRATCH_ORG_UPDATED" }
func (ScratchOrgError) Type() string        { return "SCRATCH_ORG_ERROR" }
func (UserLoggedIn) Type() string           { return "USER_LOGGED_IN" }
func (UserLoggedOut) Type() string          { return "USER_LOGGED_OUT" }
func (UserTokenInvalidated) Type() string   { return "USER_TOKEN_INVALID" }
func (OrgsFetched) Type() string            { return "FETCH_ORGS_SUCCEEDED" }
func (OrgChanged) Type() string             { return "ORG_CHANGED" }
func (ErrorAdded) Type() string             { return "ERROR_ADDED" }
func (ErrorRemoved) Type() string           { return "ERROR_REMOVED" }
func (SocketConnected) Type() string        { return "SOCKET_CONNECTED" }
func (SocketDisconnected) Type() string     { return "SOCKET_DISCONNECTED" }
