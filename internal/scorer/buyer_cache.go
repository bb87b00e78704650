// internal/scorer/buyer_cache.go
package scorer

import (
	"context"
	"encoding/json"
	"time"

	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/models"
	"trustmarket-leadscore/internal/store"
)

const buyerCacheKeyPrefix = "buyer:profile:"

// BuyerCacheBackend is the Redis surface the cache needs; satisfied by
// database.RedisClient and by miniredis-backed clients in tests.
type BuyerCacheBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// buyerCache resolves buyer profiles with a per-run memo in front of an
// optional Redis layer in front of the database. Many candidates in one
// batch share a buyer, so the memo alone removes most lookups.
type buyerCache struct {
	backend BuyerCacheBackend // nil disables the Redis layer
	store   *store.Store
	ttl     time.Duration
	memo    map[string]*models.Business
	logger  logger.Logger
}

func newBuyerCache(backend BuyerCacheBackend, st *store.Store, ttl time.Duration, log logger.Logger) *buyerCache {
	return &buyerCache{
		backend: backend,
		store:   st,
		ttl:     ttl,
		memo:    make(map[string]*models.Business),
		logger:  log,
	}
}

func (c *buyerCache) resolve(ctx context.Context, businessID string) (*models.Business, error) {
	if b, ok := c.memo[businessID]; ok {
		return b, nil
	}

	key := buyerCacheKeyPrefix + businessID
	if c.backend != nil {
		if val, err := c.backend.Get(ctx, key); err == nil {
			var b models.Business
			if err := json.Unmarshal([]byte(val), &b); err == nil {
				c.memo[businessID] = &b
				return &b, nil
			}
		}
	}

	b, err := c.store.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	c.memo[businessID] = b
	if c.backend != nil {
		if data, err := json.Marshal(b); err == nil {
			if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
				c.logger.Debug("buyer cache write failed", map[string]interface{}{
					"businessId": businessID,
					"error":      err,
				})
			}
		}
	}
	return b, nil
}
