package socket

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/stats"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// State - connection lifecycle of the push channel
type State int

// State values
const (
	Connecting State = iota
	Open
	Closing
	Closed
)

func (s State) String() string {
	return [...]string{"connecting", "open", "closing", "closed"}[s]
}

// Dispatcher receives the actions built from pushed messages
type Dispatcher interface {
	Dispatch(action store.Action) error
}

// Socket - the single push channel connection of a session. Subscriptions made
// before the connection opens are queued and sent, in order, once it does.
type Socket struct {
	url        string
	dispatcher Dispatcher
	opts       *socketOptions
	dialer     *websocket.Dialer
	backoff    *backoff
	logger     log.FieldLogger

	mu           sync.Mutex
	state        State
	conn         *websocket.Conn
	pending      []Subscription
	generation   int
	opened       bool
	attempts     int
	stopped      bool
	reconnecting bool
	graceTimer   *time.Timer
	cancel       context.CancelFunc
	done         chan struct{}
}

// URLFor - the push channel url for an API root
func URLFor(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL.FormatError(baseURL)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", ErrInvalidURL.FormatError(baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + api.SocketPath
	return u.String(), nil
}

// New - a push channel for the url, call Start to connect
func New(socketURL string, dispatcher Dispatcher, opts ...Option) *Socket {
	options := newSocketOptions()
	for _, o := range opts {
		o.apply(options)
	}
	return &Socket{
		url:        socketURL,
		dispatcher: dispatcher,
		opts:       options,
		dialer: &websocket.Dialer{
			Jar:              options.jar,
			HandshakeTimeout: options.handshake,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
		backoff: newBackoff(options.retryInterval, options.maxRetryInterval, options.retryFactor),
		state:   Closed,
		logger: log.NewFieldLogger().
			WithComponent("socket").
			WithPackage("socket").
			WithField("url", socketURL),
	}
}

// Start connects in the background and keeps reconnecting until Close or ctx ends
func (s *Socket) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSocketClosed
	}
	if s.done != nil {
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.state = Connecting
	go s.run(ctx)
	return nil
}

// State -
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe asks for updates on an object, queued until the connection is open
func (s *Socket) Subscribe(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.metrics.Inc(stats.SocketSubscription)
	if s.state == Open && s.conn != nil {
		err := s.writeSubscription(s.conn, sub)
		if err == nil {
			return
		}
		s.logger.WithError(err).WithField("model", sub.Model).Debug("queueing subscription after failed write")
		// a failed write leaves the connection unusable, the reconnect flushes the queue
		s.conn.Close()
	}
	s.pending = append(s.pending, sub)
}

// Reconnect drops the current connection with a normal closure and waits for a
// new one, so the new session carries none of the old subscriptions
func (s *Socket) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrSocketClosed
	}
	generation := s.generation
	conn := s.conn
	if conn != nil {
		s.reconnecting = true
		s.state = Closing
	}
	s.mu.Unlock()

	if conn != nil {
		s.logger.Debug("reconnecting")
		closeConn(conn, "reconnecting")
	}

	ticker := time.NewTicker(s.opts.reconnectPoll)
	defer ticker.Stop()
	for {
		s.mu.Lock()
		reopened := s.state == Open && s.generation > generation
		stopped := s.stopped
		s.mu.Unlock()
		if reopened {
			return nil
		}
		if stopped {
			return ErrSocketClosed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops reconnecting and closes the connection with a normal closure
func (s *Socket) Close() {
	s.mu.Lock()
	s.stopped = true
	conn, cancel, done := s.conn, s.cancel, s.done
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
	if done == nil {
		s.state = Closed
	} else {
		s.state = Closing
	}
	s.mu.Unlock()

	if conn != nil {
		closeConn(conn, "closed by user")
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
		s.setState(Closed)
	}
}

func (s *Socket) run(ctx context.Context) {
	defer close(s.done)
	for {
		s.setState(Connecting)
		conn, _, err := s.dialer.DialContext(ctx, s.url, s.opts.header)
		if err != nil {
			s.logger.WithError(err).Debug("could not connect")
			if !s.waitRetry(ctx) {
				return
			}
			continue
		}

		reopened := s.onOpen(conn)
		s.dispatch(store.SocketConnected{})
		if reopened {
			s.opts.metrics.Inc(stats.SocketReconnects)
			if s.opts.onReconnect != nil {
				s.opts.onReconnect(ctx)
			}
		}

		s.readLoop(conn)

		if s.onClose(conn) {
			continue
		}
		if !s.waitRetry(ctx) {
			return
		}
	}
}

// onOpen flushes the queued subscriptions and reports whether this is a reconnect
func (s *Socket) onOpen(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("connected")
	s.conn = conn
	s.state = Open
	s.attempts = 0
	s.generation++
	s.backoff.reset()
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}

	pending := s.pending
	s.pending = nil
	for i, sub := range pending {
		if err := s.writeSubscription(conn, sub); err != nil {
			s.logger.WithError(err).Debug("could not flush subscriptions")
			s.pending = pending[i:]
			conn.Close()
			break
		}
	}

	reopened := s.opened
	s.opened = true
	return reopened
}

// writeSubscription is called with s.mu held, the deadline bounds how long a
// stalled peer can keep the lock
func (s *Socket) writeSubscription(conn *websocket.Conn, sub Subscription) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.opts.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(sub)
}

// onClose reports whether Reconnect asked for an immediate new connection
func (s *Socket) onClose(conn *websocket.Conn) bool {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.state = Closed
	requested := s.reconnecting
	s.reconnecting = false
	stopped := s.stopped
	s.mu.Unlock()

	conn.Close()
	if stopped {
		return false
	}
	s.startGraceTimer()
	return requested
}

func (s *Socket) waitRetry(ctx context.Context) bool {
	s.mu.Lock()
	s.attempts++
	attempts, stopped := s.attempts, s.stopped
	s.mu.Unlock()

	if stopped || ctx.Err() != nil {
		s.setState(Closed)
		return false
	}
	if attempts > s.opts.maxAttempts {
		err := ErrMaximumAttempts.FormatError(s.opts.maxAttempts)
		s.logger.WithError(err).Warn("giving up on the push channel")
		s.mu.Lock()
		s.stopped = true
		s.state = Closed
		s.mu.Unlock()
		if s.opts.onMaximum != nil {
			s.opts.onMaximum(err)
		}
		return false
	}
	if !s.backoff.sleep(ctx) {
		s.setState(Closed)
		return false
	}
	s.backoff.increaseTimeout()
	return true
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.WithError(err).Debug("connection dropped")
			}
			return
		}
		s.handleMessage(data)
	}
}

func (s *Socket) handleMessage(data []byte) {
	s.opts.metrics.Inc(stats.SocketMessages)
	msg := ParseMessage(data)
	action, err := ActionFor(msg)
	if err != nil {
		s.logger.WithError(err).Debug("ignoring message")
	}
	if action == nil {
		s.opts.metrics.Inc(stats.SocketIgnored)
		return
	}
	s.logger.WithField("type", msg.Type).Trace("received")
	s.dispatch(action)
}

// startGraceTimer reports the disconnect only if no connection opened in the meantime
func (s *Socket) startGraceTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graceTimer != nil {
		return
	}
	s.graceTimer = time.AfterFunc(s.opts.disconnectGrace, func() {
		s.mu.Lock()
		open := s.state == Open
		s.graceTimer = nil
		s.mu.Unlock()
		if !open {
			s.dispatch(store.SocketDisconnected{})
		}
	})
}

func (s *Socket) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Socket) dispatch(action store.Action) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(action); err != nil {
		s.logger.WithError(err).WithField("action", action.Type()).Debug("could not dispatch")
	}
}

func closeConn(conn *websocket.Conn, reason string) {
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second),
	)
	conn.Close()
}
