package selectors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

func loggedIn(state store.State) store.State {
	orgID := "00D"
	state.User = model.Found(&model.User{ID: "u1", ValidTokenFor: &orgID})
	state.Orgs = store.OrgsState{Fetched: true, Items: map[string]*model.Org{orgID: {OrgID: orgID}}}
	return state
}

func TestCTAPreflightFlow(t *testing.T) {
	s := store.NewWithState(loggedIn(store.NewState()))
	defer s.Close()

	plan := testPlan()
	plan.RequiresPreflight = true
	opts := CTAOptions{Selected: []string{"step-1"}}

	assert.Equal(t, CTALoading, CTA(s.State(), plan, opts).Kind)

	s.Dispatch(store.PreflightFetched{PlanID: plan.ID})
	res := CTA(s.State(), plan, opts)
	assert.Equal(t, CTAStartPreflight, res.Kind)
	assert.Equal(t, "Start Pre-Install Validation", res.Label)

	s.Dispatch(store.PreflightStarted{Preflight: &model.Preflight{ID: "pf1", Plan: plan.ID, Status: model.StatusStarted, EditedAt: time.Now()}})
	assert.Equal(t, CTAPreflightInProgress, CTA(s.State(), plan, opts).Kind)

	s.Dispatch(store.PreflightCompleted{Preflight: &model.Preflight{
		ID: "pf1", Plan: plan.ID, Status: model.StatusComplete, IsReady: true, WarningCount: 0, EditedAt: time.Now(),
	}})
	res = CTA(s.State(), plan, opts)
	assert.Equal(t, CTAInstall, res.Kind)
	assert.Equal(t, "Install", res.Label)
}

func TestCTA(t *testing.T) {
	now := time.Now()
	preflight := func(p model.Preflight) store.State {
		state := loggedIn(store.NewState())
		p.Plan = "plan1"
		state.Preflights = map[string]model.Lookup[*model.Preflight]{"plan1": model.Found(&p)}
		return state
	}

	tests := []struct {
		name     string
		state    store.State
		plan     func(p *model.Plan)
		opts     CTAOptions
		expected CTAKind
	}{
		{
			name:     "should refuse plans the user may not install",
			state:    loggedIn(store.NewState()),
			plan:     func(p *model.Plan) { p.IsAllowed = false },
			expected: CTANotAllowed,
		},
		{
			name:     "should wait for the user",
			state:    store.NewState(),
			expected: CTALoading,
		},
		{
			name: "should ask a logged out user to log in",
			state: func() store.State {
				s := store.NewState()
				s.User = model.Missing[*model.User]()
				return s
			}(),
			expected: CTALogIn,
		},
		{
			name: "should ask to log in again when the token was invalidated",
			state: func() store.State {
				s := store.NewState()
				s.User = model.Found(&model.User{ID: "u1"})
				return s
			}(),
			expected: CTALogIn,
		},
		{
			name: "should point to a job already running in the org",
			state: func() store.State {
				s := loggedIn(store.NewState())
				s.Orgs.Items["00D"] = &model.Org{OrgID: "00D", CurrentJob: &model.JobRef{ID: "j1"}}
				return s
			}(),
			expected: CTAViewRunningJob,
		},
		{
			name:     "should install directly when no preflight is required",
			state:    loggedIn(store.NewState()),
			plan:     func(p *model.Plan) { p.RequiresPreflight = false },
			opts:     CTAOptions{Selected: []string{"step-1"}},
			expected: CTAInstall,
		},
		{
			name:     "should disable install with nothing selected",
			state:    loggedIn(store.NewState()),
			plan:     func(p *model.Plan) { p.RequiresPreflight = false },
			expected: CTAInstallDisabled,
		},
		{
			name: "should show progress for a preflight running in the org",
			state: func() store.State {
				s := loggedIn(store.NewState())
				id := "pf1"
				s.Orgs.Items["00D"] = &model.Org{OrgID: "00D", CurrentPreflight: &id}
				s.Preflights = map[string]model.Lookup[*model.Preflight]{"plan1": model.Missing[*model.Preflight]()}
				return s
			}(),
			expected: CTAPreflightInProgress,
		},
		{
			name:     "should re-run a failed preflight",
			state:    preflight(model.Preflight{ID: "pf1", Status: model.StatusFailed, EditedAt: now}),
			expected: CTAReRunPreflight,
		},
		{
			name:     "should re-run a preflight with errors",
			state:    preflight(model.Preflight{ID: "pf1", Status: model.StatusComplete, ErrorCount: 1, EditedAt: now}),
			expected: CTAReRunPreflight,
		},
		{
			name:     "should re-run an expired preflight",
			state:    preflight(model.Preflight{ID: "pf1", Status: model.StatusComplete, IsReady: true, IsValid: true, EditedAt: now.Add(-time.Hour)}),
			opts:     CTAOptions{PreflightLifetime: 10 * time.Minute, Selected: []string{"step-1"}, Now: now},
			expected: CTAReRunPreflight,
		},
		{
			name:     "should install after a fresh preflight with warnings",
			state:    preflight(model.Preflight{ID: "pf1", Status: model.StatusComplete, IsReady: true, IsValid: true, WarningCount: 2, EditedAt: now}),
			opts:     CTAOptions{PreflightLifetime: 10 * time.Minute, Selected: []string{"step-1"}, Now: now},
			expected: CTAInstall,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := testPlan()
			plan.RequiresPreflight = true
			if tc.plan != nil {
				tc.plan(plan)
			}
			assert.Equal(t, tc.expected, CTA(tc.state, plan, tc.opts).Kind)
		})
	}
}
