package session

import (
	"context"
	"testing"
	"time"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist/repo"
)

func newTestManager() *Manager {
	return NewManager(
		repo.NewMemoryWishlistRepository(),
		NewTokenIssuer("test-secret", time.Hour),
	)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("sess-1", "alex")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, name, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if id != "sess-1" || name != "alex" {
		t.Fatalf("unexpected claims: %q %q", id, name)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue("sess-1", "alex")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, _, err := NewTokenIssuer("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected token signed with another key to be rejected")
	}
}

func TestManager_BeginAndResolve(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	sess, token, err := m.Begin(ctx, "alex")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}

	resolved, err := m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if resolved != sess {
		t.Fatalf("expected resolve to return the cached session")
	}

	if _, err := m.Resolve(ctx, "garbage-token"); err == nil {
		t.Fatalf("expected invalid token to be rejected")
	}
}

func TestManager_RebuildsSessionFromRepository(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryWishlistRepository()
	issuer := NewTokenIssuer("test-secret", time.Hour)

	first := NewManager(store, issuer)
	sess, token, err := first.Begin(ctx, "alex")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if _, err := sess.AddLine(ctx, wishlist.Item{SKU: "ER-100", Selections: catalog.Selection{"Color": "Blue"}}); err != nil {
		t.Fatalf("AddLine error: %v", err)
	}

	// A new manager over the same repository simulates a process restart.
	second := NewManager(store, issuer)
	rebuilt, err := second.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if s := rebuilt.Summary(); s.Lines != 1 || s.TotalQuantity != 1 {
		t.Fatalf("expected wishlist to survive rebuild, got %+v", s)
	}
}

func TestSession_SelectionsArePerProductCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	sess, _, err := m.Begin(ctx, "alex")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}

	sess.Select("ER-100", "Color", "Blue")
	sess.Select("ER-100", "Length", "8.00mm")
	sess.Select("NR-55", "Gauge", "18G")

	got := sess.Selection("ER-100")
	if got["Color"] != "Blue" || got["Length"] != "8.00mm" {
		t.Fatalf("unexpected selection: %v", got)
	}
	if sess.SelectedSKU() != "NR-55" {
		t.Fatalf("expected last touched product, got %q", sess.SelectedSKU())
	}

	// Mutating the returned copy must not leak into the session.
	got["Color"] = "Rose"
	if sess.Selection("ER-100")["Color"] != "Blue" {
		t.Fatalf("selection copy leaked back into session state")
	}
}

func TestSession_WishlistOperationsPersist(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryWishlistRepository()
	m := NewManager(store, NewTokenIssuer("test-secret", time.Hour))
	sess, _, err := m.Begin(ctx, "alex")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}

	item := wishlist.Item{SKU: "ER-100", Selections: catalog.Selection{"Color": "Blue"}}
	line, err := sess.AddLine(ctx, item)
	if err != nil {
		t.Fatalf("AddLine error: %v", err)
	}
	if _, err := sess.AddLine(ctx, item); err != nil {
		t.Fatalf("AddLine error: %v", err)
	}

	if found, err := sess.DecrementLine(ctx, line.Key); err != nil || !found {
		t.Fatalf("DecrementLine: found=%v err=%v", found, err)
	}
	if found, err := sess.DecrementLine(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key should be a found=false no-op, got found=%v err=%v", found, err)
	}

	stored, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s := stored.Summary(); s.Lines != 1 || s.TotalQuantity != 1 {
		t.Fatalf("expected persisted totals 1/1, got %+v", s)
	}
}
