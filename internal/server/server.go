package server

import (
	"net/http"
	"time"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	"github.com/greenlandphil/inventory-wishlist/internal/session"
	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
)

// Config holds the HTTP server's environment configuration.
type Config struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}

// Server is the thin presentation surface over the catalog core: plain
// JSON in, plain JSON out. It never mutates the catalog and owns no
// business rules of its own.
type Server struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
}

func New(cat *catalog.Catalog, sessions *session.Manager) *Server {
	return &Server{catalog: cat, sessions: sessions}
}

// Handler builds the route table wrapped in the shared middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /tags", s.handleListTags)
	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.HandleFunc("GET /products/{sku}", s.handleGetProduct)
	mux.HandleFunc("GET /products/{sku}/axes", s.handleGetAxes)
	mux.HandleFunc("POST /products/{sku}/price", s.handleResolvePrice)

	mux.HandleFunc("GET /wishlist", s.handleGetWishlist)
	mux.HandleFunc("POST /wishlist", s.handleAddToWishlist)
	mux.HandleFunc("POST /wishlist/{key}/increment", s.handleIncrementLine)
	mux.HandleFunc("POST /wishlist/{key}/decrement", s.handleDecrementLine)
	mux.HandleFunc("DELETE /wishlist/{key}", s.handleRemoveLine)

	return corsMiddleware(requestLogger(mux))
}

// corsMiddleware allows the browser frontend to call the API from any
// origin; the API carries no credentials beyond the bearer token.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}
