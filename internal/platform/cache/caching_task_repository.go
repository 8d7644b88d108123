// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// CachingTaskRepository decorates a TaskRepository with a per-owner Redis cache
// of task lists. List entries are keyed by a per-owner version that every
// successful mutation increments, so a list read that raced a mutation writes
// back under a version nobody reads anymore.
// Cache failures never fail the request.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb makes the decorator a passthrough.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListByOwner checks the cache first then falls back to the inner repository.
func (c *CachingTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	if c.rdb == nil {
		return c.inner.ListByOwner(ctx, ownerID)
	}

	// The version is read before the store so a concurrent mutation retires this key.
	ver, err := c.rdb.Get(ctx, c.versionKey(ownerID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		ver = "0"
	case err != nil:
		return c.inner.ListByOwner(ctx, ownerID)
	}
	key := c.listKey(ownerID, ver)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Task
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	out, err := c.inner.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Create stores the task and invalidates the owner's list.
func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// UpdateOwned updates the task and invalidates the owner's list.
func (c *CachingTaskRepository) UpdateOwned(ctx context.Context, ownerID, id string, patch entity.Patch) (*entity.Task, error) {
	t, err := c.inner.UpdateOwned(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ownerID)
	return t, nil
}

// DeleteOwned deletes the task and invalidates the owner's list.
func (c *CachingTaskRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	if err := c.inner.DeleteOwned(ctx, ownerID, id); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

func (c *CachingTaskRepository) invalidate(ctx context.Context, ownerID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.versionKey(ownerID)).Err(); err != nil {
		slog.Warn("task cache invalidation failed", "user_id", ownerID, "error", err)
	}
}

// versionKey holds the owner's list version. It has no TTL.
func (c *CachingTaskRepository) versionKey(ownerID string) string {
	return c.namespace + ":" + safe(ownerID) + ":ver"
}

// listKey is the cached list of one owner at one version.
func (c *CachingTaskRepository) listKey(ownerID, ver string) string {
	return c.namespace + ":" + safe(ownerID) + ":v" + ver
}
