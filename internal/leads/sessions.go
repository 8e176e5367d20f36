package leads

import (
	"sync"
	"time"
)

// DefaultSessionTTL is how long a form session's submission is remembered
// after its last use.
const DefaultSessionTTL = 30 * time.Minute

const maxTokenLen = 64

// Sessions maps form session tokens to their Submission, so a double click
// or a resent form hits the same state machine instead of posting twice.
type Sessions struct {
	mu        sync.Mutex
	subs      map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type sessionEntry struct {
	sub  *Submission
	seen time.Time
}

// NewSessions creates a registry. A non-positive ttl uses DefaultSessionTTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		subs: make(map[string]*sessionEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Submission returns the submission for token, creating it on first use.
// An empty or oversized token always gets a fresh, untracked submission.
func (s *Sessions) Submission(token string) *Submission {
	if token == "" || len(token) > maxTokenLen {
		return NewSubmission()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)

	e, ok := s.subs[token]
	if !ok {
		e = &sessionEntry{sub: NewSubmission()}
		s.subs[token] = e
	}
	e.seen = now
	return e.sub
}

// Len returns the number of tracked sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Sessions) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl/4 {
		return
	}
	s.lastSweep = now
	for token, e := range s.subs {
		// Never drop a submission that is still posting.
		if now.Sub(e.seen) > s.ttl && e.sub.State() != StateLoading {
			delete(s.subs, token)
		}
	}
}
