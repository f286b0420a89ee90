package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Data Sources
	InternalDataPath string
	ModelPath        string

	// Marketplace Scraping
	MarketplaceURL string
	ChromePath     string
	Headless       bool
	MaxListings    int
	ScrapeTimeout  time.Duration
	ScrapeDelayMin time.Duration
	ScrapeDelayMax time.Duration

	// Matching
	MaxInternalMatches int

	// Caching
	CacheTTL     time.Duration
	CacheBackend string // "ristretto", "redis" or "memory"
	RedisURL     string

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8000"),

		// Data source defaults
		InternalDataPath: os.Getenv("INTERNAL_DATA_PATH"),
		ModelPath:        os.Getenv("MODEL_PATH"),

		// Scraping defaults. The *_MS options are integer milliseconds.
		MarketplaceURL: getEnvOrDefault("MARKETPLACE_URL", "https://www.ebay.com/sch/i.html"),
		ChromePath:     os.Getenv("CHROME_PATH"),
		Headless:       getBoolOrDefault("HEADLESS", true),
		MaxListings:    getIntOrDefault("MAX_LISTINGS", 30),
		ScrapeTimeout:  getMillisOrDefault("SCRAPE_TIMEOUT_MS", 30000),
		ScrapeDelayMin: getMillisOrDefault("SCRAPE_DELAY_MS_MIN", 2000),
		ScrapeDelayMax: getMillisOrDefault("SCRAPE_DELAY_MS_MAX", 4000),

		// Matching defaults
		MaxInternalMatches: getIntOrDefault("MAX_INTERNAL_MATCHES", 50),

		// Cache defaults. CACHE_TTL is integer seconds.
		CacheTTL:     getSecondsOrDefault("CACHE_TTL", 3600),
		CacheBackend: getEnvOrDefault("CACHE_BACKEND", "ristretto"),
		RedisURL:     os.Getenv("REDIS_URL"),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "pricing"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "pricing123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "pricing_intelligence"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.MarketplaceURL == "" {
		return fmt.Errorf("MARKETPLACE_URL cannot be empty")
	}

	if c.MaxListings < 1 {
		return fmt.Errorf("MAX_LISTINGS must be at least 1, got %d", c.MaxListings)
	}

	if c.MaxInternalMatches < 1 {
		return fmt.Errorf("MAX_INTERNAL_MATCHES must be at least 1, got %d", c.MaxInternalMatches)
	}

	if c.ScrapeTimeout <= 0 {
		return fmt.Errorf("SCRAPE_TIMEOUT_MS must be positive, got %v", c.ScrapeTimeout)
	}

	if c.ScrapeDelayMin < 0 {
		return fmt.Errorf("SCRAPE_DELAY_MS_MIN must be non-negative, got %v", c.ScrapeDelayMin)
	}

	if c.ScrapeDelayMax < c.ScrapeDelayMin {
		return fmt.Errorf("SCRAPE_DELAY_MS_MAX (%v) must be >= SCRAPE_DELAY_MS_MIN (%v)",
			c.ScrapeDelayMax, c.ScrapeDelayMin)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.CacheTTL)
	}

	switch c.CacheBackend {
	case "ristretto", "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL cannot be empty when CACHE_BACKEND is 'redis'")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'ristretto', 'redis' or 'memory', got %q", c.CacheBackend)
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getMillisOrDefault(key string, defaultMillis int) time.Duration {
	return time.Duration(getIntOrDefault(key, defaultMillis)) * time.Millisecond
}

func getSecondsOrDefault(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntOrDefault(key, defaultSeconds)) * time.Second
}
