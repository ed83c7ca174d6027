package wishlist

import "context"

// Repository persists one aggregated wishlist per logical session. The
// wishlist is session-scoped state with no cross-session identity, so
// implementations key everything by session ID and may expire entries.
type Repository interface {
	// Load retrieves the session's wishlist, migrating any legacy payload
	// shape on the way in. A session with no stored wishlist loads empty.
	Load(ctx context.Context, sessionID string) (*List, error)

	// Save stores the session's wishlist in the current payload shape.
	Save(ctx context.Context, sessionID string, list *List) error

	// Clear removes the session's stored wishlist entirely.
	Clear(ctx context.Context, sessionID string) error
}
