package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with lazy expiry, used by tests and as
// a fallback when no Redis URL is configured (reconnection then survives
// only as long as the process).
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	recs map[string]memoryRecord
}

type memoryRecord struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, recs: make(map[string]memoryRecord)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[sessionID] = memoryRecord{rec: rec, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sessionID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.recs[sessionID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.recs, sessionID)
		return Record{}, ErrNotFound
	}
	return entry.rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, sessionID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
