package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"STORE_DRIVER", "MONGODB_URI", "MONGODB_DATABASE", "DATABASE_URL", "SQLITE_PATH",
		"RUN_MIGRATIONS", "STORE_CONNECT_TIMEOUT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"CACHE_TTL", EnvKeyJWTSecret, "JWT_EXPIRATION", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ALLOWED_ORIGINS", "TODO_API_URL", "TODO_STATE_PATH", "TODO_HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvKeyJWTSecret, "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTP.Port)
	assert.Equal(t, ":5000", cfg.Address())
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "todo", cfg.Store.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Empty(t, cfg.Redis.Addr, "cache is disabled by default")
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvKeyJWTSecret, "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("JWT_EXPIRATION", "90")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Store.SQLitePath)
	assert.Equal(t, 90*time.Second, cfg.JWT.Expiration)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Store.RunMigrations)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvKeyJWTSecret, "secret")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("RUN_MIGRATIONS", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Store.RunMigrations)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid mongo", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, EnvKeyJWTSecret},
		{"unknown driver", func(c *Config) { c.Store.Driver = "cassandra" }, "unknown STORE_DRIVER"},
		{"postgres without url", func(c *Config) { c.Store.Driver = DriverPostgres }, "DATABASE_URL"},
		{"sqlite needs nothing else", func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.MongoURI = "" }, ""},
		{"non-positive expiration", func(c *Config) { c.JWT.Expiration = 0 }, "JWT_EXPIRATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store: StoreConfig{Driver: DriverMongo, MongoURI: "mongodb://localhost"},
				JWT:   JWTConfig{Secret: "s", Expiration: time.Hour},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadClient(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_API_URL", "http://example.test/api/")
	t.Setenv("TODO_STATE_PATH", "/tmp/state.db")
	t.Setenv("TODO_HTTP_TIMEOUT", "3s")

	cfg := LoadClient()

	assert.Equal(t, "http://example.test/api", cfg.APIURL)
	assert.Equal(t, "/tmp/state.db", cfg.StatePath)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}
