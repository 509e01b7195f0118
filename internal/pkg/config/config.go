package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store backends accepted by SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Google  GoogleConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the external todo/auth API.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:3000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE,  default=memory"`
	TTL          time.Duration `env:"SESSION_TTL,    default=168h"`
	CookieName   string        `env:"SESSION_COOKIE, default=todo_session"`
	CookieSecure bool          `env:"COOKIE_SECURE,  default=false"`
}

// GoogleConfig enables the Google sign-in button when ClientID is set.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=todo_render"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether pretty console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q (want memory, redis or mongo)", c.Session.Store)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL is required")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
