package session

import (
	"context"
	"sync"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
)

// Config holds the session subsystem's environment configuration.
type Config struct {
	TokenSecret string `envconfig:"SESSION_TOKEN_SECRET" default:"dev-only-insecure-secret"`
	TokenTTL    string `envconfig:"SESSION_TOKEN_TTL" default:"24h"`
}

// Session is the explicit per-user interaction context: identity, the
// working selections per product, and the session's aggregated wishlist.
// All wishlist access goes through the session's mutex so concurrent
// requests on one session (two tabs) never interleave a read-modify-write.
type Session struct {
	ID       string
	Username string

	mu          sync.Mutex
	selectedSKU string
	selections  map[string]catalog.Selection
	list        *wishlist.List
	repo        wishlist.Repository
}

func newSession(id, username string, list *wishlist.List, repo wishlist.Repository) *Session {
	return &Session{
		ID:         id,
		Username:   username,
		selections: make(map[string]catalog.Selection),
		list:       list,
		repo:       repo,
	}
}

// Select records one chosen option for an axis of the given product.
func (s *Session) Select(sku, axis, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selections[sku]
	if !ok {
		sel = make(catalog.Selection)
		s.selections[sku] = sel
	}
	sel[axis] = option
	s.selectedSKU = sku
}

// Selection returns a copy of the working selection for the given product.
func (s *Session) Selection(sku string) catalog.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selections[sku].Clone()
}

// SelectedSKU returns the product the session last interacted with.
func (s *Session) SelectedSKU() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSKU
}

// AddLine folds an item into the session's wishlist and persists it.
func (s *Session) AddLine(ctx context.Context, it wishlist.Item) (wishlist.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.list.Add(it)
	if err := s.repo.Save(ctx, s.ID, s.list); err != nil {
		return wishlist.Line{}, err
	}
	return *line, nil
}

// IncrementLine raises a line's quantity by one. Unknown keys are a no-op
// and report found=false.
func (s *Session) IncrementLine(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.list.Increment(key) {
		return false, nil
	}
	return true, s.repo.Save(ctx, s.ID, s.list)
}

// DecrementLine lowers a line's quantity by one, deleting it at zero.
// Unknown keys are a no-op and report found=false.
func (s *Session) DecrementLine(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.list.Decrement(key) {
		return false, nil
	}
	return true, s.repo.Save(ctx, s.ID, s.list)
}

// RemoveLine deletes a line regardless of quantity. Unknown keys are a
// no-op and report found=false.
func (s *Session) RemoveLine(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.list.Remove(key) {
		return false, nil
	}
	return true, s.repo.Save(ctx, s.ID, s.list)
}

// Lines returns the session's wishlist in stable display order.
func (s *Session) Lines() []wishlist.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Lines()
}

// Summary returns the session's wishlist totals.
func (s *Session) Summary() wishlist.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Summary()
}
