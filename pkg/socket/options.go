package socket

import (
	"context"
	"net/http"
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/stats"
)

// Option configures the push channel
type Option interface {
	apply(*socketOptions)
}

// funcOption defines a func that receives a socketOptions. Implements the Option interface.
type funcOption func(*socketOptions)

// apply calls the original func to update the socketOptions.
func (f funcOption) apply(opt *socketOptions) {
	f(opt)
}

// ReconnectHandler runs after a dropped connection is restored, before any pushed message is read
type ReconnectHandler func(ctx context.Context)

// MaximumHandler runs once when reconnecting gives up
type MaximumHandler func(err error)

type socketOptions struct {
	maxAttempts      int
	retryInterval    time.Duration
	maxRetryInterval time.Duration
	retryFactor      int
	disconnectGrace  time.Duration
	reconnectPoll    time.Duration
	handshake        time.Duration
	writeTimeout     time.Duration
	jar              http.CookieJar
	header           http.Header
	onReconnect      ReconnectHandler
	onMaximum        MaximumHandler
	metrics          stats.Collector
}

// newSocketOptions returns the default socketOptions
func newSocketOptions() *socketOptions {
	return &socketOptions{
		maxAttempts:     25,
		retryInterval:   5 * time.Second,
		retryFactor:     1,
		disconnectGrace: 5 * time.Second,
		reconnectPoll:   500 * time.Millisecond,
		handshake:       30 * time.Second,
		writeTimeout:    10 * time.Second,
		header:          http.Header{},
		metrics:         stats.Default(),
	}
}

// WithMaxAttempts - reconnect attempts before giving up
func WithMaxAttempts(attempts int) Option {
	return funcOption(func(o *socketOptions) {
		o.maxAttempts = attempts
	})
}

// WithRetryInterval - fixed wait between reconnect attempts
func WithRetryInterval(interval time.Duration) Option {
	return funcOption(func(o *socketOptions) {
		o.retryInterval = interval
	})
}

// WithBackoff - grow the wait between attempts by factor, up to max
func WithBackoff(max time.Duration, factor int) Option {
	return funcOption(func(o *socketOptions) {
		o.maxRetryInterval = max
		o.retryFactor = factor
	})
}

// WithDisconnectGrace - how long a dropped connection may stay down before the store hears about it
func WithDisconnectGrace(grace time.Duration) Option {
	return funcOption(func(o *socketOptions) {
		o.disconnectGrace = grace
	})
}

// WithReconnectPoll - how often Reconnect checks for the new connection
func WithReconnectPoll(interval time.Duration) Option {
	return funcOption(func(o *socketOptions) {
		o.reconnectPoll = interval
	})
}

// WithHandshakeTimeout -
func WithHandshakeTimeout(timeout time.Duration) Option {
	return funcOption(func(o *socketOptions) {
		o.handshake = timeout
	})
}

// WithWriteTimeout - longest a subscription write may block on a stalled peer
func WithWriteTimeout(timeout time.Duration) Option {
	return funcOption(func(o *socketOptions) {
		if timeout > 0 {
			o.writeTimeout = timeout
		}
	})
}

// WithCookieJar - dial with the session cookies of the transport client
func WithCookieJar(jar http.CookieJar) Option {
	return funcOption(func(o *socketOptions) {
		o.jar = jar
	})
}

// WithHeader - extra headers sent with the upgrade request
func WithHeader(key, value string) Option {
	return funcOption(func(o *socketOptions) {
		o.header.Add(key, value)
	})
}

// WithReconnectHandler - callback used to resync after a dropped connection
func WithReconnectHandler(f ReconnectHandler) Option {
	return funcOption(func(o *socketOptions) {
		o.onReconnect = f
	})
}

// WithMaximumHandler - callback used when reconnecting gives up
func WithMaximumHandler(f MaximumHandler) Option {
	return funcOption(func(o *socketOptions) {
		o.onMaximum = f
	})
}

// WithMetrics -
func WithMetrics(collector stats.Collector) Option {
	return funcOption(func(o *socketOptions) {
		o.metrics = collector
	})
}
