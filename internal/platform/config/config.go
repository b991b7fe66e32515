package config

import (
	"os"
	"strconv"
	"time"
)

// Config groups all runtime configuration. FromEnv builds it from the
// environment so main stays lean.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Auth     Auth
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration
}

// Postgres captures the persistence backend. An empty URL selects the
// in-memory stores.
type Postgres struct {
	URL string
}

// Redis captures the optional record cache. An empty URL disables it.
type Redis struct {
	URL      string
	CacheTTL time.Duration
}

// Kafka captures the optional audit broker. Empty brokers keep the audit
// trail on the in-memory store.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Auth captures token validation and the operator surface.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	// AdminKeyHash is the bcrypt hash of the operator API key; empty
	// disables the admin routes.
	AdminKeyHash string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Server: Server{
			Addr:           getenv("GEOSTAKE_ADDR", ":8080"),
			RequestTimeout: getenvDuration("GEOSTAKE_REQUEST_TIMEOUT", 30*time.Second),
		},
		Postgres: Postgres{
			URL: os.Getenv("GEOSTAKE_POSTGRES_URL"),
		},
		Redis: Redis{
			URL:      os.Getenv("GEOSTAKE_REDIS_URL"),
			CacheTTL: getenvDuration("GEOSTAKE_CACHE_TTL", 5*time.Minute),
		},
		Auth: Auth{
			// Use a default for development - must be overridden in production.
			JWTSigningKey: getenv("GEOSTAKE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     getenv("GEOSTAKE_JWT_ISSUER", "geostake"),
			AdminKeyHash:  os.Getenv("GEOSTAKE_ADMIN_KEY_HASH"),
		},
	}
	if brokers := os.Getenv("GEOSTAKE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitCSV(brokers)
		cfg.Kafka.Topic = getenv("GEOSTAKE_KAFKA_TOPIC", "geostake.audit")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if part := raw[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
