package revocation

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	revokedAt time.Time
	expiresAt time.Time
}

// MemoryStore keeps revoked tokens in a process-local map.
//
// Known limitations, kept on purpose: entries are never evicted (the map
// grows for the process lifetime, even past token expiry), the set is lost
// on restart, and it is not shared between instances. Multi-instance
// deployments need a store backed by shared storage instead.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]entry),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the first revocation time on repeated revokes
	if _, ok := s.tokens[token]; !ok {
		s.tokens[token] = entry{revokedAt: time.Now(), expiresAt: expiresAt}
	}

	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[token]
	return ok, nil
}

// Len returns the number of revoked tokens held
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
