package main

import (
	"log"
	"net/http"
	"time"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	"github.com/greenlandphil/inventory-wishlist/internal/core"
	errx "github.com/greenlandphil/inventory-wishlist/internal/core/error"
	"github.com/greenlandphil/inventory-wishlist/internal/server"
	"github.com/greenlandphil/inventory-wishlist/internal/session"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist/repo"
	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
	pkgredis "github.com/greenlandphil/inventory-wishlist/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis       pkgredis.Config
	WishlistTTL string `envconfig:"WISHLIST_TTL" default:"168h"`

	// Subsystems
	Catalog catalog.Config
	Session session.Config
	Server  server.Config
}

func main() {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: envCfg.Environment})

	// The catalog is the one thing the service cannot run without:
	// a missing or unreadable source aborts startup.
	cat, err := catalog.Load(envCfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", errx.WrapCatalog(err))
	}
	logx.Info().Int("products", cat.Len()).Str("source", envCfg.Catalog.Path).Msg("catalog loaded")

	// Session wishlists live in Redis when configured, in memory otherwise.
	var wishlists wishlist.Repository
	if envCfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(envCfg.WishlistTTL)
		if err != nil {
			log.Fatalf("Invalid WISHLIST_TTL '%s': %v", envCfg.WishlistTTL, err)
		}
		rdb, err := envCfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()
		wishlists = repo.NewRedisWishlistRepository(rdb, ttl)
		logx.Info().Dur("ttl", ttl).Msg("using redis wishlist repository")
	} else {
		wishlists = repo.NewMemoryWishlistRepository()
		logx.Info().Msg("using in-memory wishlist repository")
	}

	tokenTTL, err := time.ParseDuration(envCfg.Session.TokenTTL)
	if err != nil {
		log.Fatalf("Invalid SESSION_TOKEN_TTL '%s': %v", envCfg.Session.TokenTTL, err)
	}
	sessions := session.NewManager(wishlists, session.NewTokenIssuer(envCfg.Session.TokenSecret, tokenTTL))

	srv := server.New(cat, sessions)
	logx.Info().Str("addr", envCfg.Server.Addr).Msg("server starting")
	if err := http.ListenAndServe(envCfg.Server.Addr, srv.Handler()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
