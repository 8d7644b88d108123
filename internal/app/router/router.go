// Package router wires HTTP routes onto a gin engine.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	platformhandler "todo_backend/internal/platform/http/handler"
	jwtmw "todo_backend/internal/platform/jwt"
)

// Options carries everything NewRouter mounts.
type Options struct {
	Auth           *authhandler.AuthHandler
	Tasks          *taskhandler.TasksHandler
	Resolver       jwtmw.IdentityResolver
	AllowedOrigins []string
	HealthChecks   map[string]platformhandler.Pinger
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter returns the engine serving /healthz, /api/auth and /api/tasks.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 認証不要
	health := platformhandler.Health(opts.HealthChecks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", opts.Auth.Signup)
		authGroup.POST("/login", opts.Auth.Login)
	}

	// 認証必須のルート
	tasks := api.Group("/tasks")
	tasks.Use(jwtmw.AuthRequired(opts.Resolver))
	{
		tasks.GET("", opts.Tasks.List)
		tasks.POST("", opts.Tasks.Create)
		tasks.PUT("/:id", opts.Tasks.Update)
		tasks.DELETE("/:id", opts.Tasks.Delete)
	}

	return r
}
