package leads

import (
	"context"
	"sync"
	"time"
)

// LogStore is the append-only lead log. Implementations make Append atomic:
// concurrent appends never lose a lead.
type LogStore interface {
	Append(ctx context.Context, lead *Lead) error
	List(ctx context.Context) ([]*Lead, error)
	Len(ctx context.Context) (int, error)
}

// Backend names used in metrics and configuration.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultLogKey is the fixed key the lead log lives under.
const DefaultLogKey = "noah_leads"

// MemoryStore keeps the lead log in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	leads []Lead
}

// NewMemoryStore creates an empty in-memory log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores a copy of lead.
func (s *MemoryStore) Append(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *lead
	if n := len(s.leads); n > 0 {
		cp.Timestamp = notBefore(cp.Timestamp, s.leads[n-1].Timestamp)
	}
	s.leads = append(s.leads, cp)
	return nil
}

// List returns copies of every lead, oldest first.
func (s *MemoryStore) List(_ context.Context) ([]*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Lead, 0, len(s.leads))
	for i := range s.leads {
		cp := s.leads[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Len returns the number of logged leads.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), nil
}

// notBefore keeps log timestamps non-decreasing when the wall clock steps back.
func notBefore(ts, last time.Time) time.Time {
	if ts.Before(last) {
		return last
	}
	return ts
}
