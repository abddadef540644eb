package draft

import (
	"errors"
	"sync"
)

// ErrNoSession is returned when a draft is read or dispatched against a
// session that was never provisioned (or already discarded). Operating on a
// missing store is a programming error on the caller's side and must surface
// immediately instead of silently serving a stale draft.
var ErrNoSession = errors.New("draft: no store provisioned for session")

// Store holds exactly one Draft and applies actions to it through the
// reducer. Every mutation notifies all subscribers synchronously with the
// new snapshot. The browser original ran single-threaded; here concurrent
// dispatches from separate requests are serialized by the mutex, so each one
// still runs to completion before the next begins.
type Store struct {
	mu      sync.RWMutex
	state   Draft
	subs    map[int]func(Draft)
	nextSub int
}

// NewStore creates a store holding a fresh default draft.
func NewStore() *Store {
	return &Store{
		state: New(),
		subs:  make(map[int]func(Draft)),
	}
}

// State returns the current draft snapshot. The returned value is a deep
// copy; mutating it does not affect the store.
func (s *Store) State() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies the action and returns the resulting snapshot.
// Subscribers are notified before the lock is released, so they observe
// mutations strictly in dispatch order even under concurrent dispatchers.
// Callbacks receive the snapshot and must not call back into the store.
func (s *Store) Dispatch(a Action) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}
	return snapshot
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function unsubscribes; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(Draft)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Sessions is the provisioning scope for draft stores: one Store per editing
// session, keyed by an opaque session id (in practice the authenticated user
// id). Consumers outside the scope — a session that was never opened — get
// ErrNoSession rather than a silently absent draft.
type Sessions struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewSessions() *Sessions {
	return &Sessions{stores: make(map[string]*Store)}
}

// Open provisions a store for the session, or returns the existing one.
func (r *Sessions) Open(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stores[sessionID]; ok {
		return st
	}
	st := NewStore()
	r.stores[sessionID] = st
	return st
}

// Get returns the session's store, failing loudly when none was provisioned.
func (r *Sessions) Get(sessionID string) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stores[sessionID]
	if !ok {
		return nil, ErrNoSession
	}
	return st, nil
}

// Close tears down the session's store. Unknown sessions are a no-op.
func (r *Sessions) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}
