// Package config loads Pipescope configuration from TOML files.
//
// Configuration controls the HTTP server address, the scene store backend,
// and the artifact cache. All fields have working defaults, so a missing
// config file yields a usable single-process setup (in-memory store, no
// cache). A handful of environment variables override file values for
// containerized deployments.
//
// # Example
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[cache]
//	dir = "/var/cache/pipescope"
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/pipescope/pipescope/pkg/errors"
)

// Store backend names accepted in [StoreConfig.Backend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the scene store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis", "mongo".
	Backend string `toml:"backend"`

	// Dir is the scene directory for the file backend.
	// Empty means the per-user default.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the Redis scene store.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB scene store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig configures the render artifact cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty disables caching.
	Dir string `toml:"dir"`

	// TTLMinutes expires artifacts after the given number of minutes.
	// Zero means entries never expire.
	TTLMinutes int `toml:"ttl_minutes"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
	}
}

// Load reads configuration from path, applies environment overrides, and
// validates the result. An empty path yields the defaults (plus overrides).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid store backend %q (must be one of: memory, file, redis, mongo)", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server addr must not be empty")
	}
	if c.Cache.TTLMinutes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl_minutes must not be negative")
	}
	return nil
}

// applyEnv overlays environment variables onto the configuration.
// Recognized variables:
//
//	PIPESCOPE_ADDR        server listen address
//	PIPESCOPE_STORE       store backend name
//	PIPESCOPE_REDIS_ADDR  redis address
//	PIPESCOPE_REDIS_DB    redis database number
//	PIPESCOPE_MONGO_URI   mongodb connection string
func applyEnv(cfg *Config) {
	if v := os.Getenv("PIPESCOPE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PIPESCOPE_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("PIPESCOPE_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("PIPESCOPE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = db
		}
	}
	if v := os.Getenv("PIPESCOPE_MONGO_URI"); v != "" {
		cfg.Store.Mongo.URI = v
	}
}

// String returns a one-line summary for startup logging.
// Credentials never appear in the summary.
func (c Config) String() string {
	return fmt.Sprintf("addr=%s store=%s cache=%v", c.Server.Addr, c.Store.Backend, c.Cache.Dir != "")
}
