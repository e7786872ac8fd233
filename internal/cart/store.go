package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the single persistence boundary for carts. Implementations own
// the storage medium; the aggregate itself is medium-agnostic.
type Store interface {
	// Get loads the user's cart, returning an empty cart when none exists.
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save persists the user's cart.
	Save(ctx context.Context, userID uuid.UUID, cart *Cart) error

	// Delete drops the user's cart.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// memoryStore keeps carts in process memory, one snapshot per user.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]Item
}

// NewMemoryStore creates an in-memory cart store.
func NewMemoryStore() Store {
	return &memoryStore{
		carts: make(map[uuid.UUID][]Item),
	}
}

func (s *memoryStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.carts[userID]
	if !ok {
		return New(), nil
	}
	return FromItems(items), nil
}

func (s *memoryStore) Save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[userID] = cart.Items()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
