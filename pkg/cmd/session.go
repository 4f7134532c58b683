package cmd

import (
	"context"
	"net/http"
	"net/url"

	"github.com/metadeploy/metadeploy-sdk/pkg/actions"
	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/config"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/stats"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/useragent"
)

// SessionCookie - cookie the site keeps the login in
const SessionCookie = "sessionid"

// Session - the services of one client session, wired together
type Session struct {
	Store   store.Store
	Client  api.Client
	Socket  *socket.Socket
	Actions *actions.Actions
	Metrics stats.Collector
	logger  log.FieldLogger
}

// NewSession - a transport client and push channel sharing one cookie jar, both
// feeding the same store
func NewSession(cfg config.ClientConfig, globals *config.Globals) (*Session, error) {
	jar := api.NewCookieJar()
	if cfg.GetSession() != "" {
		siteURL, err := url.Parse(cfg.GetURL())
		if err != nil {
			return nil, config.ErrBadConfig.FormatError("metadeploy.url")
		}
		jar.SetCookies(siteURL, []*http.Cookie{{Name: SessionCookie, Value: cfg.GetSession(), Path: "/"}})
	}

	socketURL, err := socket.URLFor(cfg.GetURL())
	if err != nil {
		return nil, err
	}

	userAgent := useragent.New(cfg.GetUserAgent(), versionString()).Format()
	s := &Session{
		Store:   store.New(),
		Metrics: stats.New(),
		logger:  log.NewFieldLogger().WithComponent("session").WithPackage("cmd"),
	}
	s.Client = api.NewClient(
		api.WithTimeout(cfg.GetTimeout()),
		api.WithUserAgent(userAgent),
		api.WithCookieJar(jar),
		api.WithMetrics(s.Metrics),
	)

	socketCfg := cfg.GetSocketConfig()
	var acts *actions.Actions
	s.Socket = socket.New(socketURL, s.Store,
		socket.WithMaxAttempts(socketCfg.GetMaxAttempts()),
		socket.WithRetryInterval(socketCfg.GetRetryInterval()),
		socket.WithBackoff(socketCfg.GetMaxRetryInterval(), socketCfg.GetRetryFactor()),
		socket.WithDisconnectGrace(socketCfg.GetDisconnectGrace()),
		socket.WithReconnectPoll(socketCfg.GetReconnectPoll()),
		socket.WithHandshakeTimeout(socketCfg.GetHandshakeTimeout()),
		socket.WithWriteTimeout(socketCfg.GetWriteTimeout()),
		socket.WithCookieJar(jar),
		socket.WithHeader("User-Agent", userAgent),
		socket.WithMetrics(s.Metrics),
		socket.WithReconnectHandler(func(ctx context.Context) {
			acts.ReconnectHandler()(ctx)
		}),
		socket.WithMaximumHandler(func(err error) {
			s.Store.Dispatch(store.NewError(err.Error()))
		}),
	)
	acts = actions.New(s.Client, cfg.GetURL(), s.Store, s.Socket, globals)
	s.Actions = acts
	return s, nil
}

// Start seeds the store from the globals and opens the push channel
func (s *Session) Start(ctx context.Context) error {
	if err := s.Actions.Init(); err != nil {
		return err
	}
	return s.Socket.Start(ctx)
}

// Close stops the push channel and the store
func (s *Session) Close() {
	s.Socket.Close()
	s.Store.Close()
	s.Metrics.Log()
}
