package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"contacts-api/internal/adapter/cache"
	domain "contacts-api/internal/domain/contact"
	"contacts-api/internal/usecase/contact"
)

// CachedContactRepository implements contact.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedContactRepository struct {
	dbRepo contact.Repository
	cache  cache.ContactCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedContactRepository creates a new instance of CachedContactRepository.
func NewCachedContactRepository(dbRepo contact.Repository, cache cache.ContactCache, log *zap.Logger) contact.Repository {
	return &CachedContactRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedContactRepository) Create(ctx context.Context, c *domain.Contact) (int64, error) {
	return r.dbRepo.Create(ctx, c)
}

// GetByID retrieves a contact using the cache-aside pattern. Concurrent
// misses for the same contact are collapsed into a single DB read.
func (r *CachedContactRepository) GetByID(ctx context.Context, id, ownerID int64) (*domain.Contact, error) {
	if r.cache != nil {
		cachedContact, err := r.cache.Get(ctx, ownerID, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedContact != nil {
			r.log.Debug("contact retrieved from cache", zap.Int64("id", id))
			return cachedContact, nil
		}
	}

	key := fmt.Sprintf("contact:%d:%d", ownerID, id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Another request may have populated the cache while we waited.
		if r.cache != nil {
			cachedContact, err := r.cache.Get(ctx, ownerID, id)
			if err == nil && cachedContact != nil {
				r.log.Debug("contact retrieved from cache after single-flight wait", zap.Int64("id", id))
				return cachedContact, nil
			}
		}

		c, err := r.dbRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, c); err != nil {
				r.log.Warn("failed to cache contact", zap.Int64("id", id), zap.Error(err))
			}
		}

		return c, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Contact), nil
}

// ListByOwner delegates to the DB repository. List results are not cached.
func (r *CachedContactRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Contact, error) {
	return r.dbRepo.ListByOwner(ctx, ownerID, skip, limit)
}

// Update delegates to the DB repository and invalidates the cached entry.
func (r *CachedContactRepository) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	updated, err := r.dbRepo.Update(ctx, c)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, c.OwnerID, c.ID); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.Int64("id", c.ID), zap.Error(err))
		}
	}

	return updated, nil
}

// Delete delegates to the DB repository and invalidates the cached entry.
func (r *CachedContactRepository) Delete(ctx context.Context, id, ownerID int64) (*domain.Contact, error) {
	deleted, err := r.dbRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, ownerID, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return deleted, nil
}
