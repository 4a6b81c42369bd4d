package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"companions/internal/domain"
)

// Cache stores the purchase list of each customer.
type Cache interface {
	Get(ctx context.Context, customerID string) (*domain.PurchaseSnapshot, error)
	// SetIfNewer stores snap unless the cached entry was produced by a newer
	// event. It reports whether the write happened.
	SetIfNewer(ctx context.Context, snap domain.PurchaseSnapshot) (bool, error)
}

// setIfNewer keeps the stored (created, event) pair monotonic. Equal pairs
// are rewritten so redeliveries stay idempotent.
var setIfNewer = redis.NewScript(`
local created = redis.call('HGET', KEYS[1], 'created')
if created then
  local stored = tonumber(created)
  local incoming = tonumber(ARGV[1])
  if stored > incoming then
    return 0
  end
  if stored == incoming and redis.call('HGET', KEYS[1], 'event') > ARGV[2] then
    return 0
  end
end
redis.call('HSET', KEYS[1], 'created', ARGV[1], 'event', ARGV[2], 'payload', ARGV[3])
if tonumber(ARGV[4]) > 0 then
  redis.call('EXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

// RedisCache implements Cache with one hash per customer.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl (zero keeps
// them forever).
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: "entitlements:", ttl: ttl}
}

func (c *RedisCache) key(customerID string) string {
	return c.prefix + customerID
}

// Get returns the cached snapshot or domain.ErrNotFound.
func (c *RedisCache) Get(ctx context.Context, customerID string) (*domain.PurchaseSnapshot, error) {
	raw, err := c.rdb.HGet(ctx, c.key(customerID), "payload").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var snap domain.PurchaseSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &snap, nil
}

// SetIfNewer writes snap atomically against the stored event ordering.
func (c *RedisCache) SetIfNewer(ctx context.Context, snap domain.PurchaseSnapshot) (bool, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("cache encode: %w", err)
	}
	n, err := setIfNewer.Run(ctx, c.rdb,
		[]string{c.key(snap.CustomerID)},
		snap.Source.Created.UnixMilli(), snap.Source.ID, payload, int64(c.ttl/time.Second),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return n == 1, nil
}

var _ Cache = (*RedisCache)(nil)
