package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// Store - the single owner of client state
type Store interface {
	Dispatch(action Action) error
	State() State
	Subscribe() (<-chan State, string)
	Unsubscribe(id string)
	Close()
}

type action int

const (
	dispatchAction action = iota
	getAction
	subscribeAction
	unsubscribeAction
)

type storeAction struct {
	action     action
	dispatched Action
	id         string
	channel    chan State
	reply      chan State
}

// stateStore applies every action on one goroutine so reducers never race
type stateStore struct {
	logger        log.FieldLogger
	state         State
	subscribers   map[string]chan State
	actionChannel chan storeAction
	done          chan struct{}
	closeOnce     sync.Once
}

// New - create a store holding the empty state
func New() Store {
	return NewWithState(NewState())
}

// NewWithState - create a store seeded with an initial state
func NewWithState(initial State) Store {
	s := &stateStore{
		logger:        log.NewFieldLogger().WithPackage("store").WithComponent("stateStore"),
		state:         initial,
		subscribers:   make(map[string]chan State),
		actionChannel: make(chan storeAction),
		done:          make(chan struct{}),
	}
	go s.handleAction()
	return s
}

// handleAction - handles all calls to the store to prevent locking issues
func (s *stateStore) handleAction() {
	for {
		select {
		case <-s.done:
			for id, ch := range s.subscribers {
				close(ch)
				delete(s.subscribers, id)
			}
			return
		case thisAction := <-s.actionChannel:
			switch thisAction.action {
			case dispatchAction:
				s.apply(thisAction.dispatched)
			case subscribeAction:
				s.subscribers[thisAction.id] = thisAction.channel
				publish(thisAction.channel, s.state)
			case unsubscribeAction:
				if ch, ok := s.subscribers[thisAction.id]; ok {
					close(ch)
					delete(s.subscribers, thisAction.id)
				}
			}
			thisAction.reply <- s.state
		}
	}
}

func (s *stateStore) apply(a Action) {
	s.logger.WithField("action", a.Type()).Trace("applying action")
	s.state = reduce(s.state, a)
	for _, ch := range s.subscribers {
		publish(ch, s.state)
	}
}

// publish replaces whatever the subscriber has not read yet
func publish(ch chan State, state State) {
	select {
	case ch <- state:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

func (s *stateStore) runAction(thisAction storeAction) (State, error) {
	thisAction.reply = make(chan State, 1)
	select {
	case <-s.done:
		return State{}, ErrStoreClosed
	default:
	}
	select {
	case <-s.done:
		return State{}, ErrStoreClosed
	case s.actionChannel <- thisAction:
	}
	return <-thisAction.reply, nil
}

// Dispatch - apply the action, returns once every reducer ran
func (s *stateStore) Dispatch(a Action) error {
	if a == nil {
		return nil
	}
	_, err := s.runAction(storeAction{action: dispatchAction, dispatched: a})
	if err != nil {
		s.logger.WithField("action", a.Type()).Debug("dropping action, store closed")
	}
	return err
}

// State - the latest state
func (s *stateStore) State() State {
	state, err := s.runAction(storeAction{action: getAction})
	if err != nil {
		return NewState()
	}
	return state
}

// Subscribe - a channel always holding the latest state, and the id to unsubscribe with
func (s *stateStore) Subscribe() (<-chan State, string) {
	id := uuid.New().String()
	ch := make(chan State, 1)
	if _, err := s.runAction(storeAction{action: subscribeAction, id: id, channel: ch}); err != nil {
		close(ch)
	}
	return ch, id
}

// Unsubscribe - closes the subscriber channel
func (s *stateStore) Unsubscribe(id string) {
	s.runAction(storeAction{action: unsubscribeAction, id: id})
}

// Close - stops the store, subscriber channels are closed
func (s *stateStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
