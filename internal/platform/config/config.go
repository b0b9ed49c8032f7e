package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the verification service.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig

	// ReopenOnNeedsInfo controls whether a needs_info attempt is revived when
	// the owner resumes, instead of starting a fresh attempt.
	ReopenOnNeedsInfo bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds settings for the draft snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DraftTTL     time.Duration
}

// KafkaConfig holds settings for the optional audit event sink.
type KafkaConfig struct {
	Brokers         string
	AuditTopic      string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// DraftCacheTTL bounds how long an unsubmitted draft snapshot stays hot.
var DraftCacheTTL = 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PERMITDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 15 * time.Minute
	if s := os.Getenv("TOKEN_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			tokenTTL = d
		}
	}

	draftTTL := DraftCacheTTL
	if s := os.Getenv("DRAFT_CACHE_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			draftTTL = d
		}
	}

	return Server{
		Addr:              addr,
		JWTSigningKey:     jwtSigningKey,
		JWTIssuer:         envOr("JWT_ISSUER", "permitdesk"),
		JWTAudience:       envOr("JWT_AUDIENCE", "permitdesk-api"),
		TokenTTL:          tokenTTL,
		ReopenOnNeedsInfo: os.Getenv("REOPEN_ON_NEEDS_INFO") == "true",
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envIntOr("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envIntOr("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			DraftTTL:     draftTTL,
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			AuditTopic:      envOr("KAFKA_AUDIT_TOPIC", "permitdesk.audit"),
			Acks:            envOr("KAFKA_ACKS", "all"),
			Retries:         envIntOr("KAFKA_RETRIES", 3),
			DeliveryTimeout: 10 * time.Second,
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
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
