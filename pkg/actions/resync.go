package actions

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

const resyncConcurrency = 4

// Resync refetches everything the push channel may have missed while
// disconnected. Known jobs and preflights still running are subscribed again
// by their fetch.
func (a *Actions) Resync(ctx context.Context) error {
	a.logger.Debug("resyncing after reconnect")
	if err := a.FetchUser(ctx); err != nil {
		return ErrResync.WithCause(err)
	}
	state := a.store.State()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)

	if state.User.IsPresent() {
		g.Go(func() error {
			return a.FetchOrgs(gctx)
		})
		for planID, lookup := range state.Preflights {
			if !lookup.IsPresent() {
				continue
			}
			planID := planID
			g.Go(func() error {
				return a.FetchPreflight(gctx, planID)
			})
		}
	}
	for _, jobID := range jobsToResync(state) {
		jobID := jobID
		g.Go(func() error {
			return a.FetchJob(gctx, jobID, "", "", "")
		})
	}
	for planID, lookup := range state.ScratchOrgs {
		if !lookup.IsPresent() {
			continue
		}
		planID := planID
		g.Go(func() error {
			return a.FetchScratchOrg(gctx, planID)
		})
	}

	if err := g.Wait(); err != nil {
		return ErrResync.WithCause(err)
	}
	return nil
}

// jobsToResync - known jobs that could still change
func jobsToResync(state store.State) []string {
	ids := []string{}
	for id, lookup := range state.Jobs {
		if job, ok := lookup.Get(); ok && !job.Status.IsTerminal() {
			ids = append(ids, id)
		}
	}
	return ids
}

// ReconnectHandler - hand to the push channel so a reopened connection resyncs
func (a *Actions) ReconnectHandler() func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := a.Resync(ctx); err != nil {
			a.logger.WithError(err).Error("resync failed")
		}
	}
}
