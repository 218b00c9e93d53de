/**
 * @description
 * Configuration loader for the Auction Backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - github.com/shopspring/decimal: For monetary settings
 *
 * @notes
 * - Fails fast if critical variables (Database URL) are missing.
 * - Load() returns a fresh Config struct; callers pass it down explicitly.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/logger"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	NATS    NATSConfig
	Auction AuctionConfig
	Jobs    JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development", "staging", "production" or "test"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL         string
	AutoMigrate bool
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// NATSConfig holds NATS settings. An empty URL disables the NATS publisher.
type NATSConfig struct {
	URL string
}

// AuctionConfig holds the business defaults applied by the auction services
type AuctionConfig struct {
	DefaultDuration time.Duration
	MinBid          decimal.Decimal
	MaxTxRetries    int
}

// JobsConfig holds settings for the externally triggered reconciler
type JobsConfig struct {
	ReconcileInterval    time.Duration
	ReconcileSecret      string
	ExpireActiveListings bool // match "Active" instead of the legacy "In Auction" literal
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (k8s/prod might inject env vars directly)
	_ = godotenv.Load()

	env := getEnv("GO_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  env,
		},
		DB: DBConfig{
			URL:         getEnv("DATABASE_URL", ""),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", env == "development"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Auction: AuctionConfig{
			DefaultDuration: time.Duration(getEnvAsInt("AUCTION_DEFAULT_DURATION_DAYS", 7)) * 24 * time.Hour,
			MinBid:          getEnvAsDecimal("AUCTION_MIN_BID", decimal.RequireFromString("0.05")),
			MaxTxRetries:    getEnvAsInt("AUCTION_MAX_TX_RETRIES", 5),
		},
		Jobs: JobsConfig{
			ReconcileInterval:    time.Duration(getEnvAsInt("RECONCILE_INTERVAL_SECONDS", 60)) * time.Second,
			ReconcileSecret:      sanitizeCredential(getEnv("JOB_RECONCILE_SECRET", "")),
			ExpireActiveListings: getEnvAsBool("RECONCILE_EXPIRE_ACTIVE_LISTINGS", false),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auction.DefaultDuration <= 0 {
		return fmt.Errorf("AUCTION_DEFAULT_DURATION_DAYS must be positive")
	}
	if !cfg.Auction.MinBid.IsPositive() {
		return fmt.Errorf("AUCTION_MIN_BID must be positive")
	}
	if cfg.Auction.MaxTxRetries < 1 {
		cfg.Auction.MaxTxRetries = 1
	}
	if cfg.Jobs.ReconcileInterval <= 0 {
		cfg.Jobs.ReconcileInterval = time.Minute
	}
	if cfg.Jobs.ReconcileSecret == "" && cfg.Server.Env == "production" {
		logger.Warn("JOB_RECONCILE_SECRET is missing. The reconcile endpoint is unprotected.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	return fallback
}
