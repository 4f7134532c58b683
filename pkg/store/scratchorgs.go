package store

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

func reduceScratchOrgs(s map[string]model.Lookup[*model.ScratchOrg], action Action) map[string]model.Lookup[*model.ScratchOrg] {
	switch a := action.(type) {
	case ScratchOrgFetched:
		if a.ScratchOrg == nil {
			return withLookup(s, a.PlanID, model.Missing[*model.ScratchOrg]())
		}
		return withLookup(s, a.PlanID, model.Found(a.ScratchOrg))
	case ScratchOrgSpinning:
		org := *a.ScratchOrg
		if org.Status == "" {
			org.Status = model.ScratchOrgCreating
		}
		return withLookup(s, org.Plan, model.Found(&org))
	case ScratchOrgCreated:
		return withLookup(s, a.ScratchOrg.Plan, model.Found(a.ScratchOrg))
	case ScratchOrgUpdated:
		return withLookup(s, a.ScratchOrg.Plan, model.Found(a.ScratchOrg))
	case ScratchOrgError:
		return withLookup(s, a.PlanID, model.Missing[*model.ScratchOrg]())
	}
	return s
}
