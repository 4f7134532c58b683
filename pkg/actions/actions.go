package actions

import (
	"context"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/config"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// Subscriber - the push channel operations the actions need
type Subscriber interface {
	Subscribe(sub socket.Subscription)
	Reconnect(ctx context.Context) error
}

// Actions - fetches from the API and keeps the store and push channel in step.
// Every result is dispatched as the same action the push channel would send.
type Actions struct {
	logger  log.FieldLogger
	fetcher *api.Fetcher
	store   store.Store
	socket  Subscriber
	globals *config.Globals
}

// New - actions against the site at baseURL. Failed requests are added to the
// store's error list.
func New(client api.Client, baseURL string, st store.Store, sub Subscriber, globals *config.Globals) *Actions {
	if globals == nil {
		globals = config.NewGlobals()
	}
	a := &Actions{
		logger:  log.NewFieldLogger().WithComponent("actions").WithPackage("actions"),
		store:   st,
		socket:  sub,
		globals: globals,
	}
	a.fetcher = api.NewFetcher(client, baseURL, a.surfaceError)
	return a
}

// Globals -
func (a *Actions) Globals() *config.Globals {
	return a.globals
}

// Store -
func (a *Actions) Store() store.Store {
	return a.store
}

// Init seeds the store with the user the globals carry. Without one the user
// stays unknown until fetched.
func (a *Actions) Init() error {
	user, ok := a.globals.InitialUser().Get()
	if !ok {
		return nil
	}
	if err := a.store.Dispatch(store.UserLoggedIn{User: user}); err != nil {
		return err
	}
	a.subscribe(socket.ModelUser, user.ID, "")
	return nil
}

func (a *Actions) surfaceError(message string) {
	if err := a.store.Dispatch(store.NewError(message)); err != nil {
		a.logger.WithError(err).WithField("message", message).Debug("could not record error")
	}
}

func (a *Actions) subscribe(model, id, uuid string) {
	if a.socket == nil || id == "" {
		return
	}
	a.logger.WithField("model", model).WithField("id", id).Trace("subscribing")
	a.socket.Subscribe(socket.Subscription{Model: model, ID: id, UUID: uuid})
}

// DismissError - drops a surfaced error from the store
func (a *Actions) DismissError(id string) error {
	return a.store.Dispatch(store.ErrorRemoved{ID: id})
}
