// Package config builds the process configuration from the environment.
//
// Everything the server needs — store connection details, the session
// secret, TTLs — lives in one Config value constructed once in main and
// passed down explicitly. Nothing in the application reads the environment
// after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr          = ":3000"
	defaultMongoURI      = "mongodb://127.0.0.1:27017"
	defaultMongoDatabase = "floracart"
	defaultSessionTTL    = 24 * time.Hour
	defaultRedisAddr     = "localhost:6379"
	defaultAppEnv        = "local"
)

// Config holds every runtime setting for the FloraCart server.
type Config struct {
	AppEnv string
	Addr   string

	MongoURI      string
	MongoDatabase string

	// SessionSecret seals the session cookie. Required outside local env.
	SessionSecret string
	// SessionDriver selects the session store backend: "mongo" or "redis".
	SessionDriver string
	SessionTTL    time.Duration

	RedisAddr     string
	RedisPassword string

	// LogCollection, when set, mirrors log records into this Mongo collection.
	LogCollection string
}

// Load reads .env (if present) and the process environment into a Config.
// A missing .env file is not an error; explicit environment always wins
// because godotenv never overrides variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Config{
		AppEnv:        get("APP_ENV", defaultAppEnv),
		Addr:          get("APP_ADDR", defaultAddr),
		MongoURI:      get("MONGO_URI", defaultMongoURI),
		MongoDatabase: get("MONGO_DATABASE", defaultMongoDatabase),
		SessionSecret: get("SESSION_SECRET", ""),
		SessionDriver: strings.ToLower(get("SESSION_DRIVER", "mongo")),
		SessionTTL:    defaultSessionTTL,
		RedisAddr:     get("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: get("REDIS_PASSWORD", ""),
		LogCollection: get("LOG_COLLECTION", ""),
	}

	if ttl := get("SESSION_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SessionDriver {
	case "mongo", "redis":
	default:
		return fmt.Errorf("config: unsupported SESSION_DRIVER %q (supported: mongo, redis)", c.SessionDriver)
	}

	if c.SessionSecret == "" {
		if c.Production() {
			return fmt.Errorf("config: SESSION_SECRET is required when APP_ENV=%s", c.AppEnv)
		}
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Production reports whether the server runs with production settings.
func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
