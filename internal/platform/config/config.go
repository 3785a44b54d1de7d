package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Postgres captures the relational store configuration.
type Postgres struct {
	DSN string
}

// Redis captures login-account store configuration. An empty URL disables
// Redis and falls back to the in-memory login store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures notification publishing configuration. Empty seeds disable
// Kafka and fall back to the log notifier.
type Kafka struct {
	Seeds []string
	Topic string
}

// Directory captures the LDAP connection settings. The value is constructed
// once at startup and passed into the directory client; nothing mutates it
// afterwards.
type Directory struct {
	URL          string
	BindDN       string
	BindPassword string
	BaseDN       string
	DialTimeout  time.Duration
}

// Config is the root configuration assembled from the environment.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
	Directory Directory
}

// FromEnv builds the full configuration from environment variables so main
// stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("CLOUDID_ADDR", ":8080"),
			JWTSigningKey: envOr("CLOUDID_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("CLOUDID_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("CLOUDID_REDIS_URL"),
			PoolSize:     envIntOr("CLOUDID_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("CLOUDID_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("CLOUDID_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("CLOUDID_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("CLOUDID_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Seeds: splitNonEmpty(os.Getenv("CLOUDID_KAFKA_SEEDS")),
			Topic: envOr("CLOUDID_KAFKA_TOPIC", "cloudid.identity.events"),
		},
		Directory: Directory{
			URL:          envOr("CLOUDID_LDAP_URL", "ldap://localhost:389"),
			BindDN:       os.Getenv("CLOUDID_LDAP_BIND_DN"),
			BindPassword: os.Getenv("CLOUDID_LDAP_BIND_PASSWORD"),
			BaseDN:       envOr("CLOUDID_LDAP_BASE_DN", "o=cloud,dc=ibergrid,dc=eu"),
			DialTimeout:  envDurationOr("CLOUDID_LDAP_DIAL_TIMEOUT", 10*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
