package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	errx "github.com/greenlandphil/inventory-wishlist/internal/core/error"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
)

// Manager issues sessions and resolves them from tokens. Sessions are
// cached in-process; after a restart they are rebuilt from the wishlist
// repository, which also runs the legacy payload migration before any
// other wishlist operation touches the session.
type Manager struct {
	repo   wishlist.Repository
	tokens *TokenIssuer

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(repo wishlist.Repository, tokens *TokenIssuer) *Manager {
	return &Manager{
		repo:     repo,
		tokens:   tokens,
		sessions: make(map[string]*Session),
	}
}

// Begin starts a fresh session for the given display name and returns it
// together with its signed token.
func (m *Manager) Begin(ctx context.Context, username string) (*Session, string, error) {
	id := uuid.NewString()

	list, err := m.repo.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}

	token, err := m.tokens.Issue(id, username)
	if err != nil {
		return nil, "", err
	}

	s := newSession(id, username, list, m.repo)
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logx.Debug().Str("sessionID", id).Str("username", username).Msg("session started")
	return s, token, nil
}

// Resolve returns the session behind a token, rebuilding it from the
// repository when the process no longer holds it in memory.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	id, username, err := m.tokens.Parse(token)
	if err != nil {
		return nil, errx.Unauthorized("invalid session token")
	}

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	list, err := m.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	s := newSession(id, username, list, m.repo)
	m.mu.Lock()
	// Another request may have rebuilt the session concurrently; keep the
	// first one so both requests share a wishlist.
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[id] = s
	m.mu.Unlock()

	logx.Debug().Str("sessionID", id).Msg("session rebuilt from repository")
	return s, nil
}

// End discards a session and its stored wishlist.
func (m *Manager) End(ctx context.Context, s *Session) error {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	return m.repo.Clear(ctx, s.ID)
}
