package actions

import (
	"context"
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// FetchPreflight - the latest preflight of the user for a plan
func (a *Actions) FetchPreflight(ctx context.Context, planID string) error {
	preflight := &model.Preflight{}
	requestedAt := time.Now()
	found, err := a.fetcher.Get(ctx, api.PreflightPath(planID), preflight, api.AllowNotFound())
	if err != nil {
		return err
	}
	if !found || preflight.ID == "" {
		preflight = nil
	}
	if err := a.store.Dispatch(store.PreflightFetched{PlanID: planID, Preflight: preflight, RequestedAt: requestedAt}); err != nil {
		return err
	}
	// a complete preflight can still be invalidated by the server
	if preflight != nil {
		a.subscribe(socket.ModelPreflight, preflight.ID, "")
	}
	return nil
}

// StartPreflight - runs a new preflight for the plan against the user's org
func (a *Actions) StartPreflight(ctx context.Context, planID string) (*model.Preflight, error) {
	preflight := &model.Preflight{}
	if _, err := a.fetcher.Post(ctx, api.PreflightPath(planID), struct{}{}, preflight); err != nil {
		return nil, err
	}
	if preflight.Plan == "" {
		preflight.Plan = planID
	}
	if err := a.store.Dispatch(store.PreflightStarted{Preflight: preflight}); err != nil {
		return nil, err
	}
	a.subscribe(socket.ModelPreflight, preflight.ID, "")
	return preflight, nil
}
