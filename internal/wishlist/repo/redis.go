package repo

import (
	"context"
	"fmt"
	"time"

	errx "github.com/greenlandphil/inventory-wishlist/internal/core/error"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist"
	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisWishlistRepository keeps one wishlist payload per session key with a
// TTL that is extended on every save, so active sessions stay alive and
// abandoned ones expire. Legacy flat-array payloads left behind by older
// deployments are migrated transparently on load and rewritten in the
// versioned shape on the next save.
type RedisWishlistRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisWishlistRepository(rdb redis.Cmdable, ttl time.Duration) *RedisWishlistRepository {
	return &RedisWishlistRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisWishlistRepository) wishlistKey(sessionID string) string {
	return fmt.Sprintf("session:%s:wishlist", sessionID)
}

func (r *RedisWishlistRepository) Load(ctx context.Context, sessionID string) (*wishlist.List, error) {
	key := r.wishlistKey(sessionID)

	payload, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return wishlist.NewList(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load wishlist from redis")
		return nil, errx.WrapRedis(err)
	}

	list, err := wishlist.DecodePayload(payload)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to decode wishlist payload")
		return nil, fmt.Errorf("decode wishlist for session %s: %w", sessionID, err)
	}
	return list, nil
}

func (r *RedisWishlistRepository) Save(ctx context.Context, sessionID string, list *wishlist.List) error {
	b, err := wishlist.EncodePayload(list)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to encode wishlist")
		return fmt.Errorf("encode wishlist: %w", err)
	}
	key := r.wishlistKey(sessionID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save wishlist to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisWishlistRepository) Clear(ctx context.Context, sessionID string) error {
	key := r.wishlistKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to clear wishlist")
		return errx.WrapRedis(err)
	}
	return nil
}
