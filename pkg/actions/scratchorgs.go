package actions

import (
	"context"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

type scratchOrgRequest struct {
	Email string `json:"email"`
}

// FetchScratchOrg - the scratch org spun up for a plan in this session
func (a *Actions) FetchScratchOrg(ctx context.Context, planID string) error {
	org := &model.ScratchOrg{}
	found, err := a.fetcher.Get(ctx, api.ScratchOrgPath(planID), org, api.AllowNotFound())
	if err != nil {
		return err
	}
	if !found || org.UUID == "" {
		org = nil
	} else if org.Plan == "" {
		org.Plan = planID
	}
	if err := a.store.Dispatch(store.ScratchOrgFetched{PlanID: planID, ScratchOrg: org}); err != nil {
		return err
	}
	if org != nil && org.Status != model.ScratchOrgComplete && org.Status != model.ScratchOrgError {
		a.subscribe(socket.ModelScratchOrg, planID, org.UUID)
	}
	return nil
}

// SpinScratchOrg - provisions a scratch org for the plan, the push channel
// reports when it is ready
func (a *Actions) SpinScratchOrg(ctx context.Context, planID, email string) (*model.ScratchOrg, error) {
	if !a.globals.ScratchOrgsEnabled {
		return nil, ErrScratchOrgsDisabled
	}
	org := &model.ScratchOrg{}
	if _, err := a.fetcher.Post(ctx, api.ScratchOrgPath(planID), scratchOrgRequest{Email: email}, org); err != nil {
		return nil, err
	}
	if org.Plan == "" {
		org.Plan = planID
	}
	if err := a.store.Dispatch(store.ScratchOrgSpinning{ScratchOrg: org}); err != nil {
		return nil, err
	}
	a.subscribe(socket.ModelScratchOrg, planID, org.UUID)
	return org, nil
}
