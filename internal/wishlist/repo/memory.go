package repo

import (
	"context"
	"sync"

	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
)

// MemoryWishlistRepository is the default store when no Redis backend is
// configured: encoded payloads per session, held for the process lifetime.
// Payloads are stored encoded so sessions get value semantics, the same as
// the redis-backed repository.
type MemoryWishlistRepository struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func NewMemoryWishlistRepository() *MemoryWishlistRepository {
	return &MemoryWishlistRepository{payloads: make(map[string][]byte)}
}

func (r *MemoryWishlistRepository) Load(_ context.Context, sessionID string) (*wishlist.List, error) {
	r.mu.Lock()
	payload, ok := r.payloads[sessionID]
	r.mu.Unlock()
	if !ok {
		return wishlist.NewList(), nil
	}
	return wishlist.DecodePayload(payload)
}

func (r *MemoryWishlistRepository) Save(_ context.Context, sessionID string, list *wishlist.List) error {
	b, err := wishlist.EncodePayload(list)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.payloads[sessionID] = b
	r.mu.Unlock()
	return nil
}

func (r *MemoryWishlistRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.payloads, sessionID)
	r.mu.Unlock()
	return nil
}
