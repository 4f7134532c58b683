package actions

import (
	"context"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// FetchUser - the session's user, absent when logged out
func (a *Actions) FetchUser(ctx context.Context) error {
	user := &model.User{}
	found, err := a.fetcher.Get(ctx, api.UserPath, user, api.AllowNotFound())
	if err != nil {
		return err
	}
	if !found || user.ID == "" {
		user = nil
	}
	if err := a.store.Dispatch(store.UserLoggedIn{User: user}); err != nil {
		return err
	}
	if user != nil {
		a.subscribe(socket.ModelUser, user.ID, "")
	}
	return nil
}

// FetchOrgs - what is running in each org the user can target
func (a *Actions) FetchOrgs(ctx context.Context) error {
	orgs := map[string]*model.Org{}
	if _, err := a.fetcher.Get(ctx, api.OrgsPath, &orgs); err != nil {
		return err
	}
	for id, org := range orgs {
		if org == nil {
			delete(orgs, id)
			continue
		}
		if org.OrgID == "" {
			org.OrgID = id
		}
	}
	if err := a.store.Dispatch(store.OrgsFetched{Orgs: orgs}); err != nil {
		return err
	}
	for id := range orgs {
		a.subscribe(socket.ModelOrg, id, "")
	}
	return nil
}

// Logout ends the session, reconnects the push channel so no per user
// subscription survives, and refetches the products the new session can see
func (a *Actions) Logout(ctx context.Context) error {
	if _, err := a.fetcher.Post(ctx, api.LogoutPath, struct{}{}, nil); err != nil {
		return err
	}
	if err := a.store.Dispatch(store.UserLoggedOut{}); err != nil {
		return err
	}
	if a.socket != nil {
		if err := a.socket.Reconnect(ctx); err != nil {
			a.logger.WithError(err).Warn("push channel did not reconnect after logout")
		}
	}
	return a.FetchProducts(ctx)
}
