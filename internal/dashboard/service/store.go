package service

import (
	"context"
	"errors"
	"sync"

	"golang-stock-dashboard/pkg/logger"
)

// ErrStoreStopped is returned when the store loop is no longer running.
var ErrStoreStopped = errors.New("store stopped")

const updateBufferSize = 64

// Subscriber receives a State copy after every committed transition. It runs
// on the store loop and must not block or call back into the store synchronously.
type Subscriber func(State)

type update struct {
	apply  func(*State)
	notify bool
}

// Store owns the session State and applies every mutation on a single loop
// goroutine, so transitions never interleave.
type Store struct {
	log     *logger.Logger
	updates chan update
	done    chan struct{}
	state   State

	// decorate fills derived, non-owned fields (notices) into published copies.
	decorate func(*State)

	mu      sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

func NewStore(log *logger.Logger, initial State) *Store {
	return &Store{
		log:     log,
		updates: make(chan update, updateBufferSize),
		done:    make(chan struct{}),
		state:   initial,
		subs:    make(map[int]Subscriber),
	}
}

// Run processes updates until ctx is cancelled. It must be called exactly once.
func (s *Store) Run(ctx context.Context) error {
	defer close(s.done)
	s.log.Debug("Store loop started")
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Store loop stopped")
			return nil
		case u := <-s.updates:
			u.apply(&s.state)
			if u.notify {
				s.publish()
			}
		}
	}
}

// Dispatch queues fn to run on the loop. It reports false once the loop has stopped.
func (s *Store) Dispatch(fn func(*State)) bool {
	return s.enqueue(update{apply: fn, notify: true})
}

func (s *Store) enqueue(u update) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.updates <- u:
		return true
	case <-s.done:
		return false
	}
}

// State returns a copy of the current state, read on the loop.
func (s *Store) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	ok := s.enqueue(update{apply: func(st *State) {
		reply <- s.snapshot(st)
	}})
	if !ok {
		return State{}, ErrStoreStopped
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.done:
		return State{}, ErrStoreStopped
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) snapshot(st *State) State {
	cp := *st
	if s.decorate != nil {
		s.decorate(&cp)
	}
	return cp
}

func (s *Store) publish() {
	s.mu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	st := s.snapshot(&s.state)
	for _, fn := range subs {
		fn(st)
	}
}

// LatestState returns a subscriber that keeps only the newest state in a
// one-slot channel, for consumers that render at their own pace.
func LatestState() (Subscriber, <-chan State) {
	ch := make(chan State, 1)
	return func(st State) {
		for {
			select {
			case ch <- st:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}, ch
}
