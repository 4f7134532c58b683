package config

import (
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/cmd/properties"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/exception"
)

// SocketConfig - push channel reconnect settings
type SocketConfig interface {
	GetMaxAttempts() int
	GetRetryInterval() time.Duration
	GetMaxRetryInterval() time.Duration
	GetRetryFactor() int
	GetDisconnectGrace() time.Duration
	GetReconnectPoll() time.Duration
	GetHandshakeTimeout() time.Duration
	GetWriteTimeout() time.Duration
}

// SocketConfiguration -
type SocketConfiguration struct {
	MaxAttempts      int           `config:"maxAttempts"`
	RetryInterval    time.Duration `config:"retryInterval"`
	MaxRetryInterval time.Duration `config:"maxRetryInterval"`
	RetryFactor      int           `config:"retryFactor"`
	DisconnectGrace  time.Duration `config:"disconnectGrace"`
	ReconnectPoll    time.Duration `config:"reconnectPoll"`
	HandshakeTimeout time.Duration `config:"handshakeTimeout"`
	WriteTimeout     time.Duration `config:"writeTimeout"`
}

// NewSocketConfig - fixed 5s retries, 25 attempts
func NewSocketConfig() *SocketConfiguration {
	return &SocketConfiguration{
		MaxAttempts:      25,
		RetryInterval:    5 * time.Second,
		MaxRetryInterval: 5 * time.Second,
		RetryFactor:      1,
		DisconnectGrace:  5 * time.Second,
		ReconnectPoll:    500 * time.Millisecond,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// GetMaxAttempts -
func (s *SocketConfiguration) GetMaxAttempts() int {
	return s.MaxAttempts
}

// GetRetryInterval -
func (s *SocketConfiguration) GetRetryInterval() time.Duration {
	return s.RetryInterval
}

// GetMaxRetryInterval -
func (s *SocketConfiguration) GetMaxRetryInterval() time.Duration {
	return s.MaxRetryInterval
}

// GetRetryFactor -
func (s *SocketConfiguration) GetRetryFactor() int {
	return s.RetryFactor
}

// GetDisconnectGrace -
func (s *SocketConfiguration) GetDisconnectGrace() time.Duration {
	return s.DisconnectGrace
}

// GetReconnectPoll -
func (s *SocketConfiguration) GetReconnectPoll() time.Duration {
	return s.ReconnectPoll
}

// GetHandshakeTimeout -
func (s *SocketConfiguration) GetHandshakeTimeout() time.Duration {
	return s.HandshakeTimeout
}

// GetWriteTimeout -
func (s *SocketConfiguration) GetWriteTimeout() time.Duration {
	return s.WriteTimeout
}

// ValidateCfg -
func (s *SocketConfiguration) ValidateCfg() (err error) {
	exception.Block{
		Try: s.validate,
		Catch: func(e error) {
			err = e
		},
	}.Do()
	return
}

func (s *SocketConfiguration) validate() {
	if s.MaxAttempts <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketMaxAttempts))
	}
	if s.RetryInterval <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketRetryInterval))
	}
	if s.MaxRetryInterval < s.RetryInterval {
		exception.Throw(ErrBadConfig.FormatError(pathSocketMaxRetryInterval))
	}
	if s.RetryFactor < 1 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketRetryFactor))
	}
	if s.DisconnectGrace < 0 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketDisconnectGrace))
	}
	if s.ReconnectPoll <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketReconnectPoll))
	}
	if s.WriteTimeout <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathSocketWriteTimeout))
	}
}

const (
	pathSocketMaxAttempts      = "socket.maxAttempts"
	pathSocketRetryInterval    = "socket.retryInterval"
	pathSocketMaxRetryInterval = "socket.maxRetryInterval"
	pathSocketRetryFactor      = "socket.retryFactor"
	pathSocketDisconnectGrace  = "socket.disconnectGrace"
	pathSocketReconnectPoll    = "socket.reconnectPoll"
	pathSocketHandshakeTimeout = "socket.handshakeTimeout"
	pathSocketWriteTimeout     = "socket.writeTimeout"
)

// AddSocketConfigProperties - Adds the command properties needed for the push channel
func AddSocketConfigProperties(props properties.Properties) {
	props.AddIntProperty(pathSocketMaxAttempts, 25, "Reconnect attempts before the push channel gives up")
	props.AddDurationProperty(pathSocketRetryInterval, 5*time.Second, "Wait between reconnect attempts")
	props.AddDurationProperty(pathSocketMaxRetryInterval, 5*time.Second, "Longest wait between reconnect attempts")
	props.AddIntProperty(pathSocketRetryFactor, 1, "Growth factor of the reconnect wait, 1 keeps it fixed")
	props.AddDurationProperty(pathSocketDisconnectGrace, 5*time.Second, "Time a dropped connection has to recover before it is reported")
	props.AddDurationProperty(pathSocketReconnectPoll, 500*time.Millisecond, "Poll interval while waiting for a forced reconnect")
	props.AddDurationProperty(pathSocketHandshakeTimeout, 10*time.Second, "Websocket handshake timeout")
	props.AddDurationProperty(pathSocketWriteTimeout, 10*time.Second, "Longest a subscription write may wait on the server")
}

// ParseSocketConfig -
func ParseSocketConfig(props properties.Properties) *SocketConfiguration {
	return &SocketConfiguration{
		MaxAttempts:      props.IntPropertyValue(pathSocketMaxAttempts),
		RetryInterval:    props.DurationPropertyValue(pathSocketRetryInterval),
		MaxRetryInterval: props.DurationPropertyValue(pathSocketMaxRetryInterval),
		RetryFactor:      props.IntPropertyValue(pathSocketRetryFactor),
		DisconnectGrace:  props.DurationPropertyValue(pathSocketDisconnectGrace),
		ReconnectPoll:    props.DurationPropertyValue(pathSocketReconnectPoll),
		HandshakeTimeout: props.DurationPropertyValue(pathSocketHandshakeTimeout),
		WriteTimeout:     props.DurationPropertyValue(pathSocketWriteTimeout),
	}
}
