package selectors

import (
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// CTAKind - the primary action offered for a plan
type CTAKind string

// CTAKind values
const (
	CTANotAllowed          CTAKind = "not-allowed"
	CTALoading             CTAKind = "loading"
	CTALogIn               CTAKind = "log-in"
	CTAViewRunningJob      CTAKind = "view-running-job"
	CTAStartPreflight      CTAKind = "start-preflight"
	CTAPreflightInProgress CTAKind = "preflight-in-progress"
	CTAReRunPreflight      CTAKind = "re-run-preflight"
	CTAInstall             CTAKind = "install"
	CTAInstallDisabled     CTAKind = "install-disabled"
)

var ctaLabels = map[CTAKind]string{
	CTANotAllowed:          "Not Allowed",
	CTALoading:             "Loading…",
	CTALogIn:               "Log In",
	CTAViewRunningJob:      "View Running Installation",
	CTAStartPreflight:      "Start Pre-Install Validation",
	CTAPreflightInProgress: "Pre-Install Validation In Progress…",
	CTAReRunPreflight:      "Re-Run Pre-Install Validation",
	CTAInstall:             "Install",
	CTAInstallDisabled:     "Install",
}

// CallToAction -
type CallToAction struct {
	Kind  CTAKind
	Label string
	// JobID is set for CTAViewRunningJob
	JobID string
	// Expired is set when a completed preflight outlived its lifetime
	Expired bool
}

// CTAOptions - inputs from outside the store
type CTAOptions struct {
	PreflightLifetime time.Duration
	Selected          []string
	Now               time.Time
}

// CTA computes the call to action for a plan
func CTA(state store.State, plan *model.Plan, opts CTAOptions) CallToAction {
	if plan == nil {
		return cta(CTALoading)
	}
	if !plan.IsAllowed {
		return cta(CTANotAllowed)
	}
	if state.User.IsUnknown() {
		return cta(CTALoading)
	}
	user, ok := state.User.Get()
	if !ok || !user.HasValidToken() {
		return cta(CTALogIn)
	}

	org := SelectOrg(state, plan)
	if jobID := CurrentJobID(org); jobID != "" {
		res := cta(CTAViewRunningJob)
		res.JobID = jobID
		return res
	}
	if !plan.RequiresPreflight {
		return install(plan, opts)
	}

	preflightLookup := SelectPreflight(state, plan)
	switch preflightLookup.Presence() {
	case model.Unknown:
		return cta(CTALoading)
	case model.Absent:
		if CurrentPreflightID(org) != "" {
			return cta(CTAPreflightInProgress)
		}
		return cta(CTAStartPreflight)
	}

	preflight := preflightLookup.Value()
	switch preflight.Status {
	case model.StatusStarted:
		return cta(CTAPreflightInProgress)
	case model.StatusComplete:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		if preflight.Expired(now, opts.PreflightLifetime) {
			res := cta(CTAReRunPreflight)
			res.Expired = true
			return res
		}
		if preflight.IsReady && preflight.ErrorCount == 0 {
			return install(plan, opts)
		}
	}
	return cta(CTAReRunPreflight)
}

func install(plan *model.Plan, opts CTAOptions) CallToAction {
	if !plan.IsRestricted() && len(plan.Steps) > 0 && len(opts.Selected) == 0 {
		return cta(CTAInstallDisabled)
	}
	return cta(CTAInstall)
}

func cta(kind CTAKind) CallToAction {
	return CallToAction{Kind: kind, Label: ctaLabels[kind]}
}
