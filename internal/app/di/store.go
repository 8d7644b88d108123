// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"todo_backend/internal/config"
	authadapters "todo_backend/internal/feature/auth/adapters"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskadapters "todo_backend/internal/feature/tasks/adapters"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/db"
	platformhandler "todo_backend/internal/platform/http/handler"
	platformmongo "todo_backend/internal/platform/mongo"
)

// Stores bundles the repositories of the selected store driver.
type Stores struct {
	Users  authusecase.UserRepository
	Tasks  taskusecase.TaskRepository
	Health platformhandler.Pinger
	close  func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewStores opens the store named by cfg.Driver and builds its repositories.
func NewStores(ctx context.Context, cfg config.StoreConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return newMongoStores(ctx, cfg)
	case config.DriverPostgres:
		return newGormStores(db.Config{
			Driver:         "postgres",
			DSN:            cfg.DatabaseURL,
			ConnectTimeout: cfg.ConnectTimeout,
			Migrate:        cfg.RunMigrations,
		})
	case config.DriverSQLite:
		return newGormStores(db.Config{
			Driver:         "sqlite",
			DSN:            cfg.SQLitePath,
			ConnectTimeout: cfg.ConnectTimeout,
			Migrate:        true,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newMongoStores(ctx context.Context, cfg config.StoreConfig) (*Stores, error) {
	client, database, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	if err := authadapters.EnsureUserIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := taskadapters.EnsureTaskIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Stores{
		Users:  authadapters.NewUserMongo(database),
		Tasks:  taskadapters.NewTaskMongo(database),
		Health: platformmongo.Pinger{Client: client},
		close:  client.Disconnect,
	}, nil
}

func newGormStores(cfg db.Config) (*Stores, error) {
	gdb, err := db.OpenDB(cfg, &authadapters.UserModel{}, &taskadapters.TaskModel{})
	if err != nil {
		return nil, err
	}
	slog.Info("relational store ready", "driver", cfg.Driver)
	return NewGormStores(gdb)
}

// NewGormStores builds repositories over an already opened gorm connection.
func NewGormStores(gdb *gorm.DB) (*Stores, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return &Stores{
		Users:  authadapters.NewUserGorm(gdb),
		Tasks:  taskadapters.NewTaskGorm(gdb),
		Health: platformhandler.PingFunc(sqlDB.PingContext),
		close:  func(context.Context) error { return sqlDB.Close() },
	}, nil
}
