package search

import (
	"context"
	"sync"
)

// Sequencer numbers searches. Starting a search cancels the previous in-flight one
// of the same session, and only the latest number of a session may publish its rows.
// Numbers are monotonic across sessions and never reused.
type Sequencer struct {
	mu       sync.Mutex
	counter  uint64
	sessions map[string]*session
}

type session struct {
	latest uint64
	cancel context.CancelFunc
}

func NewSequencer() *Sequencer {
	return &Sequencer{sessions: make(map[string]*session)}
}

// Next issues the following sequence number for the session and a context that is
// cancelled when a newer search starts. The returned release func must be called
// once the search is over.
func (s *Sequencer) Next(ctx context.Context, sessionID string) (uint64, context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}

	if sess.cancel != nil {
		sess.cancel()
	}

	s.counter++
	seq := s.counter
	sess.latest = seq
	sess.cancel = cancel

	release := func() {
		cancel()

		s.mu.Lock()
		defer s.mu.Unlock()

		if cur, ok := s.sessions[sessionID]; ok && cur.latest == seq {
			delete(s.sessions, sessionID)
		}
	}

	return seq, ctx, release
}

// IsLatest reports whether seq is still the newest search of the session.
func (s *Sequencer) IsLatest(sessionID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}

	return sess.latest == seq
}

func (s *Sequencer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
