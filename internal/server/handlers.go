package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	errx "github.com/greenlandphil/inventory-wishlist/internal/core/error"
	"github.com/greenlandphil/inventory-wishlist/internal/session"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errx.StatusOf(err), map[string]string{"error": errx.MessageOf(err)})
}

// sessionFrom resolves the session behind the request's bearer token.
func (s *Server) sessionFrom(r *http.Request) (*session.Session, error) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return nil, errx.Unauthorized("missing session token")
	}
	return s.sessions.Resolve(r.Context(), token)
}

// handleLogin is the placeholder login: any credentials are accepted and a
// fresh session token is returned. A blank username becomes "Demo User".
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errx.BadRequest(err, "invalid login request"))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = "Demo User"
	}

	sess, token, err := s.sessions.Begin(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": sess.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.End(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tags": s.catalog.Tags()})
}

type productSummary struct {
	SKU   string   `json:"sku"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
	Image string   `json:"image,omitempty"`
	URL   string   `json:"url,omitempty"`
}

func summarize(p *catalog.Product) productSummary {
	return productSummary{
		SKU:   p.SKU,
		Title: p.DisplayTitle(),
		Tags:  p.Tags,
		Image: p.BestImage(),
		URL:   p.URL,
	}
}

// handleListProducts returns the gallery view, optionally filtered to
// products carrying every tag in ?tags=a,b.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var tags []string
	for _, raw := range r.URL.Query()["tags"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	products := s.catalog.FilterByTags(tags)
	summaries := make([]productSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, summarize(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": summaries,
		"total":    s.catalog.Len(),
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.BySKU(r.PathValue("sku"))
	if !ok {
		writeError(w, errx.NotFound("product not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sku":         p.SKU,
		"title":       p.DisplayTitle(),
		"description": p.Description,
		"tags":        p.Tags,
		"image":       p.BestImage(),
		"url":         p.URL,
		"axes":        catalog.BuildAxes(p),
	})
}

func (s *Server) handleGetAxes(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.BySKU(r.PathValue("sku"))
	if !ok {
		writeError(w, errx.NotFound("product not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"axes": catalog.BuildAxes(p)})
}

func decodeSelection(r *http.Request) (catalog.Selection, error) {
	var req struct {
		Selections catalog.Selection `json:"selections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errx.BadRequest(err, "invalid selection payload")
	}
	if req.Selections == nil {
		req.Selections = make(catalog.Selection)
	}
	return req.Selections, nil
}

func (s *Server) handleResolvePrice(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.BySKU(r.PathValue("sku"))
	if !ok {
		writeError(w, errx.NotFound("product not found"))
		return
	}
	sel, err := decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"price_info": catalog.ResolvePrice(p, sel)})
}

// previewImage picks the first axis image matching the selection, walking
// axes in display order.
func previewImage(axes []catalog.Axis, sel catalog.Selection) string {
	for _, ax := range axes {
		chosen, ok := sel[ax.Label]
		if !ok {
			continue
		}
		if img, ok := ax.Images[chosen]; ok && img != "" {
			return img
		}
	}
	return ""
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":   sess.Lines(),
		"summary": sess.Summary(),
	})
}

// handleAddToWishlist resolves the chosen combination's price and preview
// image, then folds the item into the session's aggregated wishlist.
func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		SKU        string            `json:"sku"`
		Selections catalog.Selection `json:"selections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errx.BadRequest(err, "invalid wishlist payload"))
		return
	}
	if req.Selections == nil {
		req.Selections = make(catalog.Selection)
	}

	p, ok := s.catalog.BySKU(req.SKU)
	if !ok {
		writeError(w, errx.NotFound("product not found"))
		return
	}

	for axis, option := range req.Selections {
		sess.Select(p.SKU, axis, option)
	}

	axes := catalog.BuildAxes(p)
	preview := previewImage(axes, req.Selections)
	if preview == "" {
		preview = p.BestImage()
	}

	line, err := sess.AddLine(r.Context(), wishlist.Item{
		SKU:          p.SKU,
		Title:        p.DisplayTitle(),
		URL:          p.URL,
		Selections:   req.Selections,
		PriceInfo:    catalog.ResolvePrice(p, req.Selections),
		PreviewImage: preview,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"line":    line,
		"summary": sess.Summary(),
	})
}

func (s *Server) adjustLine(w http.ResponseWriter, r *http.Request, adjust func(*session.Session, string) (bool, error)) {
	sess, err := s.sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	found, err := adjust(sess, r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found":   found,
		"lines":   sess.Lines(),
		"summary": sess.Summary(),
	})
}

func (s *Server) handleIncrementLine(w http.ResponseWriter, r *http.Request) {
	s.adjustLine(w, r, func(sess *session.Session, key string) (bool, error) {
		return sess.IncrementLine(r.Context(), key)
	})
}

func (s *Server) handleDecrementLine(w http.ResponseWriter, r *http.Request) {
	s.adjustLine(w, r, func(sess *session.Session, key string) (bool, error) {
		return sess.DecrementLine(r.Context(), key)
	})
}

func (s *Server) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	s.adjustLine(w, r, func(sess *session.Session, key string) (bool, error) {
		return sess.RemoveLine(r.Context(), key)
	})
}
