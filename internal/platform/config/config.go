package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig

	// EntitlementURL is the membership service granting referral rewards.
	EntitlementURL string
	// NotificationURL is the community notification service.
	NotificationURL string

	// RewardDays is the entitlement length granted after verification.
	RewardDays int
	// SweepInterval controls how often the maturity sweeper re-evaluates
	// records that completed the checklist before reaching the age gate.
	SweepInterval time.Duration
	// AuditRelayInterval controls how often the outbox relay drains into Kafka.
	AuditRelayInterval time.Duration
}

// MongoConfig points at the document datastore holding verification records,
// tracked actions, referrer stats, and the community activity collections.
type MongoConfig struct {
	URI      string
	Database string
}

// PostgresConfig points at the relational store backing the audit outbox.
type PostgresConfig struct {
	DSN string
}

// RedisConfig configures the optional redis identity cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CacheTTL bounds profile-id mappings; the mapping is append-only so a
	// long TTL is safe.
	CacheTTL time.Duration
}

// KafkaConfig lists the brokers and the topics this service touches.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	AuditTopic    string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("REFGUARD_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Mongo: MongoConfig{
			URI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
			Database: envOr("MONGO_DATABASE", "refguard"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envOrInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envOrInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envOrDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envOrDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envOrDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envOrDuration("IDENTITY_CACHE_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(envOr("KAFKA_BROKERS", "localhost:9092")),
			ConsumerGroup: envOr("KAFKA_CONSUMER_GROUP", "refguard-triggers"),
			AuditTopic:    envOr("KAFKA_AUDIT_TOPIC", "refguard.audit"),
		},
		EntitlementURL:     envOr("ENTITLEMENT_SERVICE_URL", "http://localhost:8081"),
		NotificationURL:    os.Getenv("NOTIFICATION_SERVICE_URL"),
		RewardDays:         envOrInt("REWARD_DAYS", 30),
		SweepInterval:      envOrDuration("MATURITY_SWEEP_INTERVAL", time.Hour),
		AuditRelayInterval: envOrDuration("AUDIT_RELAY_INTERVAL", 5*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
