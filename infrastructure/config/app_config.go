package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"spws/database"
	"spws/logging"
)

// AppConfig holds application-wide system configuration.
// Credentials are loaded separately by spauth.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	SharePoint  *SharePointConfig
	Database    *database.Config
	Logging     *logging.Config
}

// SharePointConfig tunes how the Lists service is called.
type SharePointConfig struct {
	SiteURL       string
	RateLimit     float64       // requests per second, 0 disables throttling
	ListCacheSize int           // GetList cache entries, 0 disables caching
	ListCacheTTL  time.Duration // GetList cache lifetime
	FieldNaming   string        // "camel" or "identity"
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		SharePoint:  LoadSharePointConfigFromEnv(),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
	}
}

// LoadSharePointConfigFromEnv loads Lists service tuning from environment variables.
func LoadSharePointConfigFromEnv() *SharePointConfig {
	return &SharePointConfig{
		SiteURL:       getEnvWithDefault("SP_SITE_URL", ""),
		RateLimit:     getEnvFloatWithDefault("SP_RATE_LIMIT", 0),
		ListCacheSize: getEnvIntWithDefault("SP_LIST_CACHE_SIZE", 128),
		ListCacheTTL:  getEnvDurationWithDefault("SP_LIST_CACHE_TTL", 5*time.Minute),
		FieldNaming:   strings.ToLower(getEnvWithDefault("SP_FIELD_NAMING", "camel")),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./spws.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
		StrictMode:        getEnvBoolWithDefault("DB_STRICT_MODE", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
