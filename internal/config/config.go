package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	DBBusyTimeout         time.Duration
	RedisAddr             string
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
	Location              *time.Location
	TrendWindowMonths     int
	ReasonLinkPolicy      string
	CatalogCacheTTL       time.Duration
	AllowedOrigins        []string
}

// LoadFromEnv loads configuration from environment variables.
// Malformed numbers and durations fall back to their defaults; an unknown
// time zone is an error since it would silently shift every month window.
func LoadFromEnv() (*Config, error) {
	loc, err := loadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/feedback.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		DBBusyTimeout:         getDuration("DB_BUSY_TIMEOUT", 5*time.Second),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		HTTPPort:              getInt("HTTP_PORT", 3000),
		Location:              loc,
		TrendWindowMonths:     getInt("TREND_WINDOW_MONTHS", 6),
		ReasonLinkPolicy:      getEnv("REASON_LINK_POLICY", "allow"),
		CatalogCacheTTL:       getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		AllowedOrigins:        getList("ALLOWED_ORIGINS"),
	}, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func loadLocation(name string) (*time.Location, error) {
	if name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
