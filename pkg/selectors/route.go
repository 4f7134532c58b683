package selectors

import (
	"fmt"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// Route - the product, version, plan and job a view addresses
type Route struct {
	ProductSlug  string
	VersionLabel string
	PlanSlug     string
	JobID        string
}

// Path - the canonical path for the route
func (r Route) Path() string {
	path := fmt.Sprintf("/products/%s", r.ProductSlug)
	if r.VersionLabel == "" {
		return path
	}
	path = fmt.Sprintf("%s/%s", path, r.VersionLabel)
	if r.PlanSlug == "" {
		return path
	}
	path = fmt.Sprintf("%s/%s", path, r.PlanSlug)
	if r.JobID != "" {
		path = fmt.Sprintf("%s/jobs/%s", path, r.JobID)
	}
	return path
}

// WithJob - the route of a job of the same plan
func (r Route) WithJob(jobID string) Route {
	r.JobID = jobID
	return r
}

// RouteStatus -
type RouteStatus int

// RouteStatus values
const (
	Ready RouteStatus = iota
	Loading
	NotFound
	Redirect
)

func (s RouteStatus) String() string {
	return [...]string{"ready", "loading", "not found", "redirect"}[s]
}

// RouteResult - what a view should render for a route
type RouteResult struct {
	Status   RouteStatus
	Redirect string
}

// SelectProduct - unknown until the product list or the product itself was fetched
func SelectProduct(state store.State, slug string) model.Lookup[*model.Product] {
	return state.Products.BySlug(slug)
}

// SelectVersion -
func SelectVersion(state store.State, route Route) model.Lookup[*model.Version] {
	productLookup := SelectProduct(state, route.ProductSlug)
	product, ok := productLookup.Get()
	if !ok {
		return absentIfAbsent[*model.Product, *model.Version](productLookup)
	}
	return product.Version(route.VersionLabel)
}

// SelectPlan -
func SelectPlan(state store.State, route Route) model.Lookup[*model.Plan] {
	versionLookup := SelectVersion(state, route)
	version, ok := versionLookup.Get()
	if !ok {
		return absentIfAbsent[*model.Version, *model.Plan](versionLookup)
	}
	return version.Plan(route.PlanSlug)
}

// SelectPreflight - the latest preflight for the plan
func SelectPreflight(state store.State, plan *model.Plan) model.Lookup[*model.Preflight] {
	if plan == nil {
		return model.Lookup[*model.Preflight]{}
	}
	return state.Preflights[plan.ID]
}

// SelectJob -
func SelectJob(state store.State, jobID string) model.Lookup[*model.Job] {
	return state.Jobs[jobID]
}

// SelectScratchOrg - the scratch org spun up for the plan
func SelectScratchOrg(state store.State, plan *model.Plan) model.Lookup[*model.ScratchOrg] {
	if plan == nil {
		return model.Lookup[*model.ScratchOrg]{}
	}
	return state.ScratchOrgs[plan.ID]
}

// LoadingOrNotFound resolves the route against the store. Only confirmed absence
// yields NotFound; anything never fetched or in flight is Loading.
func LoadingOrNotFound(state store.State, route Route) RouteResult {
	productLookup := SelectProduct(state, route.ProductSlug)
	if res, done := resolve(productLookup); done {
		return res
	}
	product := productLookup.Value()
	canonical := route
	canonical.ProductSlug = product.Slug

	if route.VersionLabel != "" {
		versionLookup := product.Version(route.VersionLabel)
		if res, done := resolve(versionLookup); done {
			return res
		}
		if route.PlanSlug != "" {
			planLookup := versionLookup.Value().Plan(route.PlanSlug)
			if res, done := resolve(planLookup); done {
				return res
			}
			canonical.PlanSlug = planLookup.Value().Slug
		}
	}
	if route.JobID != "" {
		if res, done := resolve(SelectJob(state, route.JobID)); done {
			return res
		}
	}
	if canonical != route {
		return RouteResult{Status: Redirect, Redirect: canonical.Path()}
	}
	return RouteResult{Status: Ready}
}

func resolve[T any](lookup model.Lookup[T]) (RouteResult, bool) {
	switch lookup.Presence() {
	case model.Unknown:
		return RouteResult{Status: Loading}, true
	case model.Absent:
		return RouteResult{Status: NotFound}, true
	}
	return RouteResult{}, false
}

// absentIfAbsent - a child of a confirmed absent parent is absent, otherwise unknown
func absentIfAbsent[P, C any](parent model.Lookup[P]) model.Lookup[C] {
	if parent.IsAbsent() {
		return model.Missing[C]()
	}
	return model.Lookup[C]{}
}
