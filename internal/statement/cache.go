package statement

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/theater-billing/internal/invoice"
)

// Cache stores rendered statements in Redis keyed by invoice content. The
// catalog and tariff are fixed for the process lifetime, so an invoice fully
// determines its statement and cached entries never go stale. A nil client
// degrades to a no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a statement cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key derives the cache key for an invoice from a digest of its canonical
// JSON encoding.
func (c *Cache) Key(inv invoice.Invoice) string {
	data, err := json.Marshal(inv)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "statement:render:" + hex.EncodeToString(sum[:])
}

// Get unmarshals a cached statement payload into dst. It reports whether the
// key existed.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set serialises v as JSON and stores it with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
