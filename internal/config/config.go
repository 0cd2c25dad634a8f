package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	// DatabaseURL selects the store: a postgres:// URL uses PostgreSQL,
	// anything else is treated as a SQLite DSN.
	DatabaseURL string

	JWTSecret       string
	FingerprintSalt string

	CORSOrigins []string

	// AdminEmails is the administrator allow-list applied when an account
	// is first provisioned. Loaded once at startup, immutable afterwards.
	AdminEmails []string

	RateLimitMax    int
	RateLimitWindow time.Duration

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppName: getEnv("APP_NAME", "Z-Anonyme API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		DatabaseURL: getEnv("DATABASE_URL", "zanonyme.db"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		FingerprintSalt: os.Getenv("FINGERPRINT_SALT"),

		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),

		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow: time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 60)) * time.Minute,

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		cfg.CORSOrigins = splitList(cors)
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.FingerprintSalt == "" {
		return nil, fmt.Errorf("FINGERPRINT_SALT is required")
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// IsAdminEmail reports whether the given email is on the allow-list.
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
