// Package db opens the relational store used when STORE_DRIVER is postgres or sqlite.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const retryInterval = 3 * time.Second

// Config holds the relational store settings.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver string
	// DSN is the postgres connection URL or the sqlite file path.
	DSN            string
	ConnectTimeout time.Duration
	Migrate        bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

func gormConfig() *gorm.Config {
	// TranslateError maps driver duplicate-key errors to gorm.ErrDuplicatedKey.
	return &gorm.Config{TranslateError: true}
}

// OpenerFor returns the Opener for a driver name.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		}, nil
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormConfig())
		}, nil
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses,
// waiting retryInterval between attempts.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured store and migrates models when cfg.Migrate is set.
// SQLite databases are always migrated since a fresh file has no schema.
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("empty DSN")
	}
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(cfg.DSN, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate || cfg.Driver == "sqlite" {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("schema migrated", "driver", cfg.Driver, "models", len(models))
	}
	return db, nil
}
