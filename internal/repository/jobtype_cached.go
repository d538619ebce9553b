package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"agroapi/internal/model"
)

const jobTypeCacheKey = "agroapi:job_types:v1"

// CachedJobTypeRepository wraps a JobTypeRepository with a Redis read-through
// cache for List. The full catalog is stored under a single key; Create drops
// the key so the next List repopulates it. Redis failures fall through to the
// inner repository.
type CachedJobTypeRepository struct {
	inner JobTypeRepository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedJobTypeRepository creates a caching wrapper around inner.
func NewCachedJobTypeRepository(inner JobTypeRepository, rdb *redis.Client, ttl time.Duration) *CachedJobTypeRepository {
	return &CachedJobTypeRepository{inner: inner, rdb: rdb, ttl: ttl}
}

var _ JobTypeRepository = (*CachedJobTypeRepository)(nil)

// List returns the cached catalog when present, otherwise loads from the
// inner repository and stores the result.
func (r *CachedJobTypeRepository) List(ctx context.Context) ([]model.JobType, error) {
	val, err := r.rdb.Get(ctx, jobTypeCacheKey).Result()
	if err == nil {
		var types []model.JobType
		if err := json.Unmarshal([]byte(val), &types); err == nil {
			return types, nil
		}
		// Stored value is unreadable; drop it and reload.
		_ = r.rdb.Del(ctx, jobTypeCacheKey).Err()
	} else if !errors.Is(err, redis.Nil) {
		// Redis unavailable; serve from the database.
		return r.inner.List(ctx)
	}

	types, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(types); err == nil {
		_ = r.rdb.Set(ctx, jobTypeCacheKey, b, r.ttl).Err()
	}
	return types, nil
}

// Create inserts through the inner repository and invalidates the cache.
func (r *CachedJobTypeRepository) Create(ctx context.Context, jt *model.JobType) (*model.JobType, error) {
	created, err := r.inner.Create(ctx, jt)
	if err != nil {
		return nil, err
	}
	_ = r.rdb.Del(ctx, jobTypeCacheKey).Err()
	return created, nil
}
