package cartstore

import (
	"context"
	"sync"
	"time"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
)

type memoryStore struct {
	mu sync.RWMutex
	m  map[string]*domain.Cart
}

// NewMemoryStore returns an in-process cart store with the same
// compare-and-swap contract as the persistent backends. Single-instance
// deployments and tests only.
func NewMemoryStore() Store {
	return &memoryStore{m: make(map[string]*domain.Cart)}
}

func (s *memoryStore) Get(_ context.Context, sessionKey string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur, ok := s.m[sessionKey]
	if !ok {
		return nil, nil
	}
	return copyCart(cur), nil
}

func (s *memoryStore) CompareAndSwap(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if cur, ok := s.m[cart.SessionKey]; ok {
		current = cur.Version
	}
	if current != cart.Version {
		return apperr.ErrConflict
	}
	cart.UpdatedAt = time.Now().UTC()
	cart.Version++
	s.m[cart.SessionKey] = copyCart(cart)
	return nil
}

func (s *memoryStore) Upsert(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.UpdatedAt = time.Now().UTC()
	if cur, ok := s.m[cart.SessionKey]; ok {
		cart.Version = cur.Version + 1
	} else {
		cart.Version = 1
	}
	s.m[cart.SessionKey] = copyCart(cart)
	return nil
}

func copyCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = c.Snapshot()
	return &cp
}
