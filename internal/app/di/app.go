package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"todo_backend/internal/app/router"
	"todo_backend/internal/config"
	authhandler "todo_backend/internal/feature/auth/transport/handler"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	platformhandler "todo_backend/internal/platform/http/handler"
	jwtmw "todo_backend/internal/platform/jwt"
)

// NewEngine wires repositories → usecases → handlers → router.
func NewEngine(cfg *config.Config, stores *Stores, rdb *redis.Client) *gin.Engine {
	gen := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration)

	// Usecase
	authUC := authusecase.NewAuthUsecase(stores.Users, gen)
	tasksUC := taskusecase.NewTasksUsecase(NewTaskRepository(rdb, cfg.Redis.TTL, stores.Tasks))

	checks := map[string]platformhandler.Pinger{}
	if stores.Health != nil {
		checks["store"] = stores.Health
	}
	if rdb != nil {
		checks["cache"] = platformhandler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	return router.NewRouter(router.Options{
		Auth:           authhandler.NewAuthHandler(authUC),
		Tasks:          taskhandler.NewTasksHandler(tasksUC),
		Resolver:       authUC,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HealthChecks:   checks,
	})
}
