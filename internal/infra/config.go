package infra

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	AppBaseURL  string
	DatabaseURL string
	RedisURL    string

	SessionJWTSecret string
	SessionJWKSURL   string
	SessionIssuer    string
	ClerkSecretKey   string
	ClerkAPIURL      string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePrices        map[string]string

	StoragePath    string
	StorageBaseURL string
	GeoIPDBPath    string
	RoutesFile     string

	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	SweepInterval      time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg, err := LoadToolConfig()
	if err != nil {
		return nil, err
	}
	if cfg.SessionJWTSecret == "" && cfg.SessionJWKSURL == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET or SESSION_JWKS_URL is required")
	}
	return cfg, nil
}

// LoadToolConfig is LoadConfig for operator commands, which never verify
// sessions and so only require the database.
func LoadToolConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        port,
		AppBaseURL:  strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SessionJWTSecret: os.Getenv("SESSION_JWT_SECRET"),
		SessionJWKSURL:   os.Getenv("SESSION_JWKS_URL"),
		SessionIssuer:    os.Getenv("SESSION_ISSUER"),
		ClerkSecretKey:   os.Getenv("CLERK_SECRET_KEY"),
		ClerkAPIURL:      strings.TrimRight(getEnv("CLERK_API_URL", "https://api.clerk.com/v1"), "/"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripePrices: map[string]string{
			"basico": os.Getenv("STRIPE_PRICE_BASICO"),
			"plus":   os.Getenv("STRIPE_PRICE_PLUS"),
			"vip":    os.Getenv("STRIPE_PRICE_VIP"),
		},

		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/admin/files"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		RoutesFile:     os.Getenv("ROUTES_FILE"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		SweepInterval:      time.Second * time.Duration(getEnvInt("ENTITLEMENT_SWEEP_SECONDS", 300)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks and duplicates.
func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}
