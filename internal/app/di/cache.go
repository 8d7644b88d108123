package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/config"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/cache"
	platformredis "todo_backend/internal/platform/redis"
)

// NewRedis connects to the configured Redis. It returns nil when caching is
// disabled or Redis is unreachable; the server then runs without cache.
func NewRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		slog.Info("REDIS_ADDR not set. Running without cache.")
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewTaskRepository wraps inner with the task list cache.
func NewTaskRepository(rdb *redis.Client, ttl time.Duration, inner taskusecase.TaskRepository) taskusecase.TaskRepository {
	if rdb == nil {
		return inner
	}
	return cache.NewCachingTaskRepository(rdb, ttl, inner, "tasks")
}
