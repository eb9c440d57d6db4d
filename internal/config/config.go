package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds environment-driven configuration for the storefront.
type Config struct {
	Addr         string
	APIURL       string
	APITimeout   time.Duration
	SessionStore string
	SessionTTL   time.Duration
	RedisAddr    string
	DatabaseURL  string
	CookieSecure bool
	DefaultLang  string
	PageSize     int
}

// DevAPIConfig holds configuration for the development API stand-in.
type DevAPIConfig struct {
	Addr         string
	JWTSecret    string
	TokenTTL     time.Duration
	DatabaseURL  string
	AllowOrigins string
	Seed         bool
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Addr:         getEnv("WEB_ADDR", ":3000"),
		APIURL:       strings.TrimRight(getEnv("API_URL", "http://localhost:8080"), "/"),
		APITimeout:   getDuration("API_TIMEOUT", 10*time.Second),
		SessionStore: strings.ToLower(getEnv("SESSION_STORE", "memory")),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "1" || strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		DefaultLang:  getEnv("DEFAULT_LANG", "en"),
		PageSize:     getInt("PAGE_SIZE", 8),
	}
}

// LoadDevAPI reads the devapi configuration from environment variables.
func LoadDevAPI() DevAPIConfig {
	return DevAPIConfig{
		Addr:         getEnv("DEVAPI_ADDR", ":8080"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:     getDuration("JWT_TTL", 72*time.Hour),
		DatabaseURL:  os.Getenv("DEVAPI_DATABASE_URL"),
		AllowOrigins: getEnv("CORS_ORIGINS", "*"),
		Seed:         !strings.EqualFold(os.Getenv("DEVAPI_SEED"), "false") && os.Getenv("DEVAPI_SEED") != "0",
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
