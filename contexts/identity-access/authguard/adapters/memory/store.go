package memory

import (
	"context"
	"sync"
	"time"

	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
	"vantage/internal/shared/identity"
)

// Store is the in-memory role directory used by tests and the in-memory
// module wiring.
type Store struct {
	mu    sync.RWMutex
	roles map[string]identity.Role
}

func NewStore(seed map[string]identity.Role) *Store {
	roles := make(map[string]identity.Role, len(seed))
	for subject, role := range seed {
		roles[subject] = role
	}
	return &Store{roles: roles}
}

func (s *Store) AssignRole(subjectID string, role identity.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[subjectID] = role
}

func (s *Store) GetRole(_ context.Context, subjectID string) (identity.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[subjectID]
	if !ok {
		return "", domainerrors.ErrUnknownSubject
	}
	return role, nil
}

// Cache is the in-memory RoleCache, a stand-in for the Redis adapter when no
// cache backend is configured.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cachedRole
}

type cachedRole struct {
	role      identity.Role
	expiresAt time.Time
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cachedRole)}
}

func (c *Cache) GetRole(_ context.Context, subjectID string) (identity.Role, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[subjectID]
	if !ok || time.Now().UTC().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.role, true, nil
}

func (c *Cache) PutRole(_ context.Context, subjectID string, role identity.Role, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[subjectID] = cachedRole{role: role, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}
