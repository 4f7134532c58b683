package actions

import (
	"context"

	"github.com/metadeploy/metadeploy-sdk/pkg/binding"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// RouteNeeds - the presence of everything a route depends on. A change of any
// of them re-runs the fetch-if-missing check.
type RouteNeeds struct {
	User           model.Presence
	OrgsFetched    bool
	Product        model.Presence
	Version        model.Presence
	Plan           model.Presence
	PlanID         string
	AdditionalDone bool
	Preflight      model.Presence
	ScratchOrg     model.Presence
	Job            model.Presence
}

func needsFor(state store.State, route selectors.Route, scratchOrgs bool) RouteNeeds {
	needs := RouteNeeds{
		User:        state.User.Presence(),
		OrgsFetched: state.Orgs.Fetched,
		Product:     selectors.SelectProduct(state, route.ProductSlug).Presence(),
	}
	if route.VersionLabel != "" {
		versionLookup := selectors.SelectVersion(state, route)
		needs.Version = versionLookup.Presence()
		if version, ok := versionLookup.Get(); ok {
			needs.AdditionalDone = version.FetchedAdditionalPlans
		}
	}
	if route.PlanSlug != "" {
		planLookup := selectors.SelectPlan(state, route)
		needs.Plan = planLookup.Presence()
		if plan, ok := planLookup.Get(); ok {
			needs.PlanID = plan.ID
			needs.Preflight = selectors.SelectPreflight(state, plan).Presence()
			if scratchOrgs && plan.SupportsScratchOrgs() {
				needs.ScratchOrg = selectors.SelectScratchOrg(state, plan).Presence()
			}
		}
	}
	if route.JobID != "" {
		needs.Job = selectors.SelectJob(state, route.JobID).Presence()
	}
	return needs
}

// EnsureRoute fetches whatever the route addresses that the store does not
// know yet. Confirmed absence stops the chain, nothing already known is
// fetched again.
func (a *Actions) EnsureRoute(ctx context.Context, route selectors.Route) error {
	state := a.store.State()

	if state.User.IsUnknown() {
		if err := a.FetchUser(ctx); err != nil {
			return err
		}
		state = a.store.State()
	}

	productLookup := selectors.SelectProduct(state, route.ProductSlug)
	if productLookup.IsUnknown() {
		if err := a.FetchProduct(ctx, route.ProductSlug); err != nil {
			return err
		}
		state = a.store.State()
		productLookup = selectors.SelectProduct(state, route.ProductSlug)
	}
	product, ok := productLookup.Get()
	if !ok || route.VersionLabel == "" {
		return a.ensureJob(ctx, state, route)
	}

	versionLookup := product.Version(route.VersionLabel)
	if versionLookup.IsUnknown() {
		if err := a.FetchVersion(ctx, product.ID, route.VersionLabel); err != nil {
			return err
		}
		state = a.store.State()
		versionLookup = selectors.SelectVersion(state, route)
	}
	version, ok := versionLookup.Get()
	if !ok {
		return a.ensureJob(ctx, state, route)
	}

	if route.PlanSlug == "" {
		if !version.FetchedAdditionalPlans {
			if err := a.FetchAdditionalPlans(ctx, product.ID, version.ID); err != nil {
				return err
			}
		}
		return a.ensureJob(ctx, a.store.State(), route)
	}

	planLookup := version.Plan(route.PlanSlug)
	if planLookup.IsUnknown() {
		if err := a.FetchPlan(ctx, product.ID, version.ID, route.PlanSlug); err != nil {
			return err
		}
		state = a.store.State()
		planLookup = selectors.SelectPlan(state, route)
	}
	if plan, ok := planLookup.Get(); ok {
		if err := a.ensurePlanState(ctx, state, plan); err != nil {
			return err
		}
		state = a.store.State()
	}
	return a.ensureJob(ctx, state, route)
}

// EnsurePlanRoute - EnsureRoute for a product, version and plan
func (a *Actions) EnsurePlanRoute(ctx context.Context, productSlug, versionLabel, planSlug string) error {
	return a.EnsureRoute(ctx, selectors.Route{ProductSlug: productSlug, VersionLabel: versionLabel, PlanSlug: planSlug})
}

func (a *Actions) ensurePlanState(ctx context.Context, state store.State, plan *model.Plan) error {
	if state.User.IsPresent() && !state.Orgs.Fetched {
		if err := a.FetchOrgs(ctx); err != nil {
			return err
		}
	}
	if state.User.IsPresent() && selectors.SelectPreflight(state, plan).IsUnknown() {
		if err := a.FetchPreflight(ctx, plan.ID); err != nil {
			return err
		}
	}
	if a.globals.ScratchOrgsEnabled && plan.SupportsScratchOrgs() && selectors.SelectScratchOrg(state, plan).IsUnknown() {
		if err := a.FetchScratchOrg(ctx, plan.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actions) ensureJob(ctx context.Context, state store.State, route selectors.Route) error {
	if route.JobID == "" || !selectors.SelectJob(state, route.JobID).IsUnknown() {
		return nil
	}
	return a.FetchJob(ctx, route.JobID, route.ProductSlug, route.VersionLabel, route.PlanSlug)
}

// WatchRoute keeps the route loaded: whenever anything it depends on changes,
// for example the user logging in or a preflight being dropped on logout,
// the missing parts are fetched again. Unmount the binding to stop.
func (a *Actions) WatchRoute(ctx context.Context, route selectors.Route) *binding.Binding[RouteNeeds] {
	scratchOrgs := a.globals.ScratchOrgsEnabled
	return binding.Mount(ctx, a.store,
		func(state store.State) RouteNeeds {
			return needsFor(state, route, scratchOrgs)
		},
		func(ctx context.Context, _ RouteNeeds, guard binding.Guard) {
			err := a.EnsureRoute(ctx, route)
			if err == nil {
				return
			}
			guard.IfMounted(func() {
				a.logger.WithError(err).WithField("route", route.Path()).Debug("could not load route")
			})
		},
	)
}
