package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	claims    Claims
	expiresAt time.Time
}

// MemoryStore keeps sessions in a process-local map. It is only acceptable
// for single-instance deployments: nothing is shared across processes and
// nothing survives a restart. Expired entries are dropped lazily on read,
// there is no background reaper.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(ctx context.Context, claims Claims) (string, error) {
	id := newSessionID()

	s.mu.Lock()
	s.sessions[id] = memoryEntry{claims: claims, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return Claims{}, ErrSessionNotFound
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return Claims{}, ErrSessionNotFound
	}

	return entry.claims, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
