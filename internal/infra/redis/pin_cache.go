package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"telegram-profile-bridge/internal/domain/ports/adapter"
	"telegram-profile-bridge/internal/infra/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var _ adapter.PinningService = (*pinCacheDecorator)(nil)

// pinCacheDecorator caches gateway reads. Pinned content is addressed by its
// hash and never changes, so entries are never invalidated, only expired.
type pinCacheDecorator struct {
	inner adapter.PinningService
	cache RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewPinCacheDecorator(inner adapter.PinningService, cache RedisClient, ttl time.Duration, logger *zerolog.Logger) adapter.PinningService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &pinCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func PinKey(hash string) string { return "pinata:ipfs:" + hash }

// Uploads always go to the pinning service.
func (d *pinCacheDecorator) Pin(ctx context.Context, b adapter.Blob) (string, error) {
	return d.inner.Pin(ctx, b)
}

func (d *pinCacheDecorator) Fetch(ctx context.Context, hash string) (json.RawMessage, error) {
	key := PinKey(hash)
	val, err := d.cache.Get(ctx, key)
	switch {
	case err == nil && json.Valid([]byte(val)):
		metrics.IncCacheRequest("pinata", "hit")
		return json.RawMessage(val), nil
	case err != nil && !errors.Is(err, redis.Nil):
		// a broken cache must not break retrieval
		metrics.IncCacheRequest("pinata", "error")
		d.log.Warn().Err(err).Str("hash", hash).Msg("pin cache read failed")
	default:
		metrics.IncCacheRequest("pinata", "miss")
	}

	data, err := d.inner.Fetch(ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Set(ctx, key, []byte(data), d.ttl); err != nil {
		d.log.Warn().Err(err).Str("hash", hash).Msg("pin cache write failed")
	}
	return data, nil
}
