package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	// Server
	Port            int
	APIKey          string
	CORSAllowOrigin string

	// Like store
	StoreBackend string

	// Database (postgres backend)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Redis (redis backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Quote sources
	QuoteProxyURL       string
	QuoteFallbackURL    string
	QuoteAPIKey         string
	QuoteTimeoutSeconds int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Server
		Port:            envInt("PORT", 3000),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Like store
		StoreBackend: strings.ToLower(envStr("STORE_BACKEND", BackendPostgres)),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "stockcheck"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// Redis
		RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		// Quote sources
		QuoteProxyURL:       envStr("QUOTE_PROXY_URL", "https://stock-price-checker-proxy.freecodecamp.rocks"),
		QuoteFallbackURL:    envStr("QUOTE_FALLBACK_URL", ""),
		QuoteAPIKey:         envStr("QUOTE_API_KEY", ""),
		QuoteTimeoutSeconds: envInt("QUOTE_TIMEOUT_SECONDS", 3),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DBUser == "" {
			errs = append(errs, "DB_USER is required for the postgres store backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis store backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendRedis, c.StoreBackend))
	}

	if c.QuoteProxyURL == "" {
		errs = append(errs, "QUOTE_PROXY_URL is required")
	}
	if c.QuoteTimeoutSeconds <= 0 {
		errs = append(errs, "QUOTE_TIMEOUT_SECONDS must be positive")
	}

	if c.QuoteFallbackURL != "" && c.QuoteAPIKey == "" {
		fmt.Println("[WARN] QUOTE_FALLBACK_URL set without QUOTE_API_KEY — fallback provider disabled")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Stock Price Checker Configuration ===")
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("Store backend: %s\n", c.StoreBackend)
	if c.StoreBackend == BackendPostgres {
		fmt.Printf("Database: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	} else {
		fmt.Printf("Redis: %s (db %d)\n", c.RedisAddr, c.RedisDB)
	}
	fmt.Printf("Quote proxy: %s\n", c.QuoteProxyURL)
	fmt.Printf("Quote fallback: %s\n", boolLabel(c.FallbackEnabled(), c.QuoteFallbackURL, "not configured"))
	fmt.Printf("Quote timeout: %ds per attempt\n", c.QuoteTimeoutSeconds)
	fmt.Printf("API auth: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Println("=========================================")
}

// FallbackEnabled reports whether the secondary quote provider is usable.
// It needs both an endpoint and an API key.
func (c *Config) FallbackEnabled() bool {
	return c.QuoteFallbackURL != "" && c.QuoteAPIKey != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
