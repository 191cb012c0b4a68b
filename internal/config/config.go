package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	HTTPAddr     string

	// Proxies allowed to set X-Forwarded-For (default: none)
	TrustedProxies []string

	DBDSN      string
	DBMaxConns int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTL        time.Duration
	Location        *time.Location
	RateLimitPerMin int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	// Production origins, comma separated (default: none)
	cfg.ProdOrigins = splitList(getEnv("PROD_ORIGINS", ""))

	// Trusted reverse proxies, comma separated IPs or CIDRs (default: none)
	cfg.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	maxConns, err := getEnvAsInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	if maxConns < 1 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: must be positive, got %d", maxConns)
	}
	cfg.DBMaxConns = int32(maxConns)

	// Redis is optional; an empty address disables the response cache.
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	// Availability cache TTL, parse as time.Duration (e.g. "30s", "1m").
	ttl, err := time.ParseDuration(getEnv("AVAILABILITY_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid AVAILABILITY_CACHE_TTL: must not be negative")
	}
	cfg.CacheTTL = ttl

	// Only used to decide which calendar day is "today".
	loc, err := time.LoadLocation(getEnv("SERVICE_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	// Per-IP request budget (default: 120/min, 0 disables)
	cfg.RateLimitPerMin, err = getEnvAsInt("RATE_LIMIT_PER_MIN", 120)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %w", err)
	}
	if cfg.RateLimitPerMin < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: must not be negative")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
