package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "contacts-api/internal/domain/contact"
)

// ContactCache defines the interface for contact caching operations.
type ContactCache interface {
	// Get retrieves a contact from cache by owner and ID.
	// Returns nil if the contact is not cached.
	Get(ctx context.Context, ownerID, id int64) (*domain.Contact, error)

	// Set stores a contact in cache with the configured TTL.
	Set(ctx context.Context, contact *domain.Contact) error

	// Delete removes a contact from cache.
	Delete(ctx context.Context, ownerID, id int64) error
}

// RedisContactCache implements ContactCache using Redis as the backing store.
type RedisContactCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisContactCache creates a new Redis-backed contact cache.
func NewRedisContactCache(client *redis.Client, ttl time.Duration, log *zap.Logger) ContactCache {
	return &RedisContactCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key scoped to the owning user, so a cached
// entry can never be served to another owner.
func (c *RedisContactCache) cacheKey(ownerID, id int64) string {
	return fmt.Sprintf("contact:%d:%d", ownerID, id)
}

// Get retrieves a contact from Redis cache.
func (c *RedisContactCache) Get(ctx context.Context, ownerID, id int64) (*domain.Contact, error) {
	key := c.cacheKey(ownerID, id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.Int64("contact_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("contact_id", id), zap.Error(err))
		return nil, err
	}

	var contact domain.Contact
	if err := json.Unmarshal(data, &contact); err != nil {
		c.log.Error("failed to unmarshal cached contact", zap.Int64("contact_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("contact_id", id))
	return &contact, nil
}

// Set stores a contact in Redis cache with TTL.
func (c *RedisContactCache) Set(ctx context.Context, contact *domain.Contact) error {
	if contact == nil {
		return fmt.Errorf("cannot cache nil contact")
	}

	key := c.cacheKey(contact.OwnerID, contact.ID)

	data, err := json.Marshal(contact)
	if err != nil {
		c.log.Error("failed to marshal contact for cache", zap.Int64("contact_id", contact.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("contact_id", contact.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached contact", zap.Int64("contact_id", contact.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a contact from Redis cache.
func (c *RedisContactCache) Delete(ctx context.Context, ownerID, id int64) error {
	key := c.cacheKey(ownerID, id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("contact_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("contact_id", id))
	return nil
}
