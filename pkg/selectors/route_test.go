package selectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

func routeState() store.State {
	state := store.NewState()
	state.Products = store.ProductsState{
		Fetched:  true,
		NotFound: []string{"gone"},
		Items: []*model.Product{
			{
				ID:       "p1",
				Slug:     "product",
				OldSlugs: []string{"old-product"},
				MostRecentVersion: &model.Version{
					ID:          "v1",
					Label:       "1.0",
					PrimaryPlan: &model.Plan{ID: "plan1", Slug: "plan", OldSlugs: []string{"old-plan"}},
					AdditionalPlans: map[string]model.Lookup[*model.Plan]{
						"removed": model.Missing[*model.Plan](),
					},
				},
				Versions: map[string]model.Lookup[*model.Version]{
					"0.1": model.Missing[*model.Version](),
				},
			},
		},
	}
	state.Jobs = map[string]model.Lookup[*model.Job]{
		"j1": model.Found(&model.Job{ID: "j1"}),
		"j2": model.Missing[*model.Job](),
	}
	return state
}

func TestLoadingOrNotFound(t *testing.T) {
	tests := []struct {
		name     string
		route    Route
		expected RouteResult
	}{
		{name: "should be ready for a known plan", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "plan"}, expected: RouteResult{Status: Ready}},
		{name: "should be ready for a known job", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "plan", JobID: "j1"}, expected: RouteResult{Status: Ready}},
		{name: "should load an unknown product", route: Route{ProductSlug: "other"}, expected: RouteResult{Status: Loading}},
		{name: "should not find a missing product", route: Route{ProductSlug: "gone"}, expected: RouteResult{Status: NotFound}},
		{name: "should load an unknown version", route: Route{ProductSlug: "product", VersionLabel: "2.0"}, expected: RouteResult{Status: Loading}},
		{name: "should not find a missing version", route: Route{ProductSlug: "product", VersionLabel: "0.1"}, expected: RouteResult{Status: NotFound}},
		{name: "should load an unknown plan", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "new"}, expected: RouteResult{Status: Loading}},
		{name: "should not find a missing plan", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "removed"}, expected: RouteResult{Status: NotFound}},
		{name: "should load an unknown job", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "plan", JobID: "j9"}, expected: RouteResult{Status: Loading}},
		{name: "should not find a missing job", route: Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "plan", JobID: "j2"}, expected: RouteResult{Status: NotFound}},
		{
			name:     "should redirect old slugs",
			route:    Route{ProductSlug: "old-product", VersionLabel: "1.0", PlanSlug: "old-plan", JobID: "j1"},
			expected: RouteResult{Status: Redirect, Redirect: "/products/product/1.0/plan/jobs/j1"},
		},
	}
	state := routeState()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LoadingOrNotFound(state, tc.route))
		})
	}
}

func TestSelectPlan(t *testing.T) {
	state := routeState()
	assert.True(t, SelectPlan(state, Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "old-plan"}).IsPresent())
	assert.True(t, SelectPlan(state, Route{ProductSlug: "product", VersionLabel: "0.1", PlanSlug: "plan"}).IsAbsent())
	assert.True(t, SelectPlan(state, Route{ProductSlug: "gone", VersionLabel: "1.0", PlanSlug: "plan"}).IsAbsent())
	assert.True(t, SelectPlan(state, Route{ProductSlug: "product", VersionLabel: "3.0", PlanSlug: "plan"}).IsUnknown())
	assert.True(t, SelectPlan(state, Route{ProductSlug: "unknown", VersionLabel: "1.0", PlanSlug: "plan"}).IsUnknown())
}

func TestSelectOrg(t *testing.T) {
	orgID := "00D"
	preflightID := "pf1"
	plan := &model.Plan{ID: "plan1"}
	state := store.NewState()
	state.Orgs = store.OrgsState{Fetched: true, Items: map[string]*model.Org{
		orgID:     {OrgID: orgID, CurrentJob: &model.JobRef{ID: "j1"}},
		"scratch": {OrgID: "scratch", CurrentPreflight: &preflightID},
	}}

	assert.Nil(t, SelectOrg(state, plan))

	state.ScratchOrgs = map[string]model.Lookup[*model.ScratchOrg]{
		"plan1": model.Found(&model.ScratchOrg{Plan: "plan1", Status: model.ScratchOrgComplete, OrgID: "scratch"}),
	}
	org := SelectOrg(state, plan)
	assert.Equal(t, "", CurrentJobID(org))
	assert.Equal(t, preflightID, CurrentPreflightID(org))

	state.User = model.Found(&model.User{ID: "u1", ValidTokenFor: &orgID})
	org = SelectOrg(state, plan)
	assert.Equal(t, "j1", CurrentJobID(org))
	assert.Equal(t, "", CurrentPreflightID(org))
}
