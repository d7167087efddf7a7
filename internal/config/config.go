// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// Bulk lookup defaults
const (
	DefaultBulkRatePerSec = 2.0
	DefaultBulkWorkers    = 4
	MaxBulkCallsigns      = 200
)

// Config holds all configuration for the MCP server and the CLI.
type Config struct {
	Username   string // QRZ_USERNAME
	Password   string // QRZ_PASSWORD
	APIVersion string // QRZ_API_VERSION, default "current"
	BaseURL    string // QRZ_BASE_URL, default "https://xmldata.qrz.com/xml"
	UserAgent  string // QRZ_USER_AGENT, default client.DefaultUserAgent

	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)
	MaxRetries        int           // MAX_RETRIES, default 3

	// Lookup cache
	LookupCacheMaxItems int           // LOOKUP_CACHE_MAX_ITEMS, default 512
	LookupCacheTTL      time.Duration // LOOKUP_CACHE_TTL_MS, default 3600000ms (1h)

	// Bulk lookups
	BulkRatePerSec float64 // BULK_RATE_PER_SEC, default 2
	BulkWorkers    int     // BULK_WORKERS, default 4

	SessionCacheDir string // SESSION_CACHE_DIR, default "<user cache dir>/qrz-mcp"
	MetricsAddr     string // METRICS_ADDR, default "" (disabled)

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Username:   getEnvString("QRZ_USERNAME", ""),
		Password:   getEnvString("QRZ_PASSWORD", ""),
		APIVersion: getEnvString("QRZ_API_VERSION", string(client.VersionCurrent)),
		BaseURL:    getEnvString("QRZ_BASE_URL", client.DefaultBaseURL),
		UserAgent:  getEnvString("QRZ_USER_AGENT", client.DefaultUserAgent),

		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),
		MaxRetries:        getEnvInt("MAX_RETRIES", client.DefaultMaxRetries),

		LookupCacheMaxItems: getEnvInt("LOOKUP_CACHE_MAX_ITEMS", 512),
		LookupCacheTTL:      getEnvDurationMs("LOOKUP_CACHE_TTL_MS", 3_600_000),

		BulkRatePerSec: getEnvFloat("BULK_RATE_PER_SEC", DefaultBulkRatePerSec),
		BulkWorkers:    getEnvInt("BULK_WORKERS", DefaultBulkWorkers),

		SessionCacheDir: getEnvString("SESSION_CACHE_DIR", defaultSessionCacheDir()),
		MetricsAddr:     getEnvString("METRICS_ADDR", ""),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// ClientConfig returns the transport configuration of the QRZ client.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:    c.BaseURL,
		UserAgent:  c.UserAgent,
		Timeout:    c.HTTPClientTimeout,
		MaxRetries: c.MaxRetries,
	}
}

// Version parses APIVersion.
func (c *Config) Version() (client.APIVersion, error) {
	return client.ParseAPIVersion(c.APIVersion)
}

// NewClient builds a QRZ client from the configuration.
func (c *Config) NewClient(opts ...client.Option) (*client.Client, error) {
	version, err := c.Version()
	if err != nil {
		return nil, err
	}
	return client.NewWithConfig(c.Username, c.Password, version, c.ClientConfig(), opts...)
}

func defaultSessionCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qrz-mcp")
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
