package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	JWTSecret            string
	DataEncryptionKey    string
	FrontendDir          string
	Environment          string
	RunMigrations        bool
	RunSeed              bool
	MaxBodyBytes         int64
	MaxUploadBytes       int64
	RateLimitPerMinute   int
	GenerateInterval     time.Duration
	GenerateHorizonDays  int
	SnapshotSyncInterval time.Duration
	SnapshotFallbackDir  string
	AutosaveInterval     time.Duration
	MetricsEnabled       bool
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		DataEncryptionKey:    getEnv("DATA_ENCRYPTION_KEY", ""),
		FrontendDir:          getEnv("FRONTEND_DIR", "frontend/dist"),
		Environment:          getEnv("APP_ENV", "development"),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 8*1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		GenerateInterval:     getEnvDuration("GENERATE_INTERVAL", 24*time.Hour),
		GenerateHorizonDays:  getEnvInt("GENERATE_HORIZON_DAYS", 28),
		SnapshotSyncInterval: getEnvDuration("SNAPSHOT_SYNC_INTERVAL", 15*time.Minute),
		SnapshotFallbackDir:  getEnv("SNAPSHOT_FALLBACK_DIR", "storage/snapshots"),
		AutosaveInterval:     getEnvDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least MAX_BODY_BYTES")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.GenerateHorizonDays <= 0 {
		return fmt.Errorf("GENERATE_HORIZON_DAYS must be positive")
	}
	if strings.TrimSpace(c.SnapshotFallbackDir) == "" {
		return fmt.Errorf("SNAPSHOT_FALLBACK_DIR is required")
	}
	return nil
}
