// Package config loads runtime settings for the server and the CLI client from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates all server settings.
type Config struct {
	HTTP   HTTPConfig
	Store  StoreConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Logger LoggerConfig
	CORS   CORSConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	DatabaseURL    string
	SQLitePath     string
	RunMigrations  bool
	ConnectTimeout time.Duration
}

// RedisConfig configures the task list cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads the server configuration from the environment (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:            getString("PORT", "5000"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getString("STORE_DRIVER", DriverMongo)),
			MongoURI:       getString("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:  getString("MONGODB_DATABASE", "todo"),
			DatabaseURL:    os.Getenv("DATABASE_URL"),
			SQLitePath:     getString("SQLITE_PATH", "./todo.db"),
			RunMigrations:  getBool("RUN_MIGRATIONS", false),
			ConnectTimeout: getDuration("STORE_CONNECT_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			TTL:      getDuration("CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv(EnvKeyJWTSecret),
			Expiration: getDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Logger: LoggerConfig{
			Level:  getString("LOG_LEVEL", "info"),
			Format: getString("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("%s must be set", EnvKeyJWTSecret)
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return errors.New("MONGODB_URI must be set for the mongo store")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set for the postgres store")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return ":" + c.HTTP.Port
}

// ClientConfig holds settings for the command line client.
type ClientConfig struct {
	APIURL      string
	StatePath   string
	HTTPTimeout time.Duration
}

// LoadClient reads the CLI client configuration.
func LoadClient() *ClientConfig {
	_ = godotenv.Load(".env")

	return &ClientConfig{
		APIURL:      strings.TrimRight(getString("TODO_API_URL", "http://localhost:5000/api"), "/"),
		StatePath:   getString("TODO_STATE_PATH", defaultStatePath()),
		HTTPTimeout: getDuration("TODO_HTTP_TIMEOUT", 10*time.Second),
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".todo", "session.db")
	}
	return filepath.Join(home, ".todo", "session.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDuration accepts Go duration strings ("90s") or plain seconds ("90").
func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
