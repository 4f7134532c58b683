package selectors

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// SelectOrg - the org the user would install into. A logged in user with a valid
// token targets their persistent org, otherwise a ready scratch org for the plan.
func SelectOrg(state store.State, plan *model.Plan) *model.Org {
	if user, ok := state.User.Get(); ok && user.HasValidToken() {
		if org, found := state.Orgs.Items[*user.ValidTokenFor]; found {
			return org
		}
		return nil
	}
	if scratch, ok := SelectScratchOrg(state, plan).Get(); ok && scratch.IsReady() {
		return state.Orgs.Items[scratch.OrgID]
	}
	return nil
}

// CurrentJobID - the job running in the org, empty when idle
func CurrentJobID(org *model.Org) string {
	if org == nil || org.CurrentJob == nil {
		return ""
	}
	return org.CurrentJob.ID
}

// CurrentPreflightID - the preflight running in the org, empty when idle
func CurrentPreflightID(org *model.Org) string {
	if org == nil || org.CurrentPreflight == nil {
		return ""
	}
	return *org.CurrentPreflight
}
