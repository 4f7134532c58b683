package cmd

import (
	"context"

	"github.com/metadeploy/metadeploy-sdk/pkg/store"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/errors"
)

// Errors returned by the commands
var (
	ErrRouteNotFound   = errors.Newf(1500, "%s was not found")
	ErrNotAllowed      = errors.Newf(1501, "plan %s can not be installed by this user")
	ErrLoginRequired   = errors.New(1502, "log in with a valid org token to install, see --metadeploySession")
	ErrNothingSelected = errors.New(1503, "no steps are selected")
	ErrPreflightFailed = errors.Newf(1504, "pre-install validation ended %s with %d errors")
	ErrJobFailed       = errors.Newf(1505, "installation ended %s: %s")
	ErrStoreStopped    = errors.New(1506, "the client stopped before the wait ended")
)

// waitFor blocks until done reports true for a state, calling seen for every
// state on the way
func waitFor(ctx context.Context, st store.Store, seen func(store.State), done func(store.State) bool) (store.State, error) {
	states, id := st.Subscribe()
	defer st.Unsubscribe(id)
	for {
		select {
		case <-ctx.Done():
			return store.State{}, ctx.Err()
		case state, ok := <-states:
			if !ok {
				return store.State{}, ErrStoreStopped
			}
			if seen != nil {
				seen(state)
			}
			if done(state) {
				return state, nil
			}
		}
	}
}
