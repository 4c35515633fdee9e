package app

import (
	"context"
	"sync"
	"time"
)

// Session is one browser's dashboard. It owns a State and at most one
// outstanding fetch: starting a new fetch cancels the previous one, and the
// request ID check in State drops anything the cancelled fetch still reports.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		state:    IdleState(),
		lastSeen: now,
	}
}

// State returns the current snapshot
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin moves the session to loading and returns the context the new fetch
// must run under. The previous fetch, if any, is cancelled.
func (s *Session) begin(parent context.Context, ticker, requestID string, now time.Time) (from Phase, next State, ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(parent, ticker, requestID, now)
}

// beginIdle is begin for a session that has never searched. ok is false
// when the session has left idle.
func (s *Session) beginIdle(parent context.Context, ticker, requestID string, now time.Time) (next State, ctx context.Context, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseIdle {
		return s.state, nil, false
	}
	_, next, ctx = s.beginLocked(parent, ticker, requestID, now)
	return next, ctx, true
}

func (s *Session) beginLocked(parent context.Context, ticker, requestID string, now time.Time) (from Phase, next State, ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, s.cancel = context.WithCancel(parent)

	from = s.state.Phase
	s.state = s.state.Submit(ticker, requestID, now)
	s.lastSeen = now
	return from, s.state, ctx
}

// complete applies a Resolve or Fail transition. ok is false when the fetch
// had been superseded.
func (s *Session) complete(transition func(State) (State, bool)) (next State, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok = transition(s.state)
	if !ok {
		return s.state, false
	}

	s.state = next
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return next, true
}

// stop cancels any outstanding fetch
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Loading() {
		return 0
	}
	return now.Sub(s.lastSeen)
}
