// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production overrides
// via the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates per-concern configuration blocks.
type Config struct {
	Server     ServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Face       FaceConfig
	Attendance AttendanceConfig
	Kafka      KafkaConfig
	Bootstrap  BootstrapConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
}

// PostgresConfig holds the SQL connection settings. An empty URL switches the
// service to in-memory stores (dev and tests).
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds cache connection settings. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StatusTTL    time.Duration
}

// FaceConfig describes the external face-recognition service contract. The
// embedding dimension and thresholds are versioned contract parameters of the
// remote model, not constants of this service.
type FaceConfig struct {
	URL             string
	Timeout         time.Duration
	VerifyThreshold float64
	UniqueThreshold float64
	EmbeddingDim    int
}

// AttendanceConfig fixes the organization's local timezone. All shift windows
// are interpreted in this zone; it never observes DST.
type AttendanceConfig struct {
	TimezoneName          string
	TimezoneOffsetMinutes int
}

// KafkaConfig enables mirroring of audit events to a topic when brokers are
// set. Empty brokers leave the in-process audit pipeline as the only sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// BootstrapConfig optionally seeds an admin account at startup so a fresh
// deployment can log in and configure shifts. Both fields must be set.
type BootstrapConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// FromEnv builds the full configuration from environment variables.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Addr:          getEnv("PRESENSI_ADDR", ":8080"),
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TokenTTL:      getDuration("TOKEN_TTL", 12*time.Hour),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			StatusTTL:    getDuration("ATTENDANCE_STATUS_TTL", 30*time.Second),
		},
		Face: FaceConfig{
			URL:             getEnv("FACE_API_URL", "http://localhost:8000"),
			Timeout:         getDuration("FACE_API_TIMEOUT", 10*time.Second),
			VerifyThreshold: getFloat("FACE_VERIFY_THRESHOLD", 0.5),
			UniqueThreshold: getFloat("FACE_UNIQUE_THRESHOLD", 0.6),
			EmbeddingDim:    getInt("FACE_EMBEDDING_DIM", 512),
		},
		Attendance: AttendanceConfig{
			TimezoneName:          getEnv("ATTENDANCE_TZ_NAME", "WIB"),
			TimezoneOffsetMinutes: getInt("ATTENDANCE_TZ_OFFSET_MINUTES", 7*60),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "presensi.audit"),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
			AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
			AdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
