package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/qrz-mcp/pkg/client"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"QRZ_USERNAME", "QRZ_PASSWORD", "QRZ_API_VERSION", "QRZ_BASE_URL",
		"HTTP_CLIENT_TIMEOUT_MS", "MAX_RETRIES", "BULK_RATE_PER_SEC", "LOG_COMPRESS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "current", cfg.APIVersion)
	assert.Equal(t, client.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Hour, cfg.LookupCacheTTL)
	assert.InDelta(t, 2.0, cfg.BulkRatePerSec, 1e-9)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QRZ_USERNAME", "AA7BQ")
	t.Setenv("QRZ_PASSWORD", "secret")
	t.Setenv("QRZ_API_VERSION", "1.34")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "1500")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("BULK_RATE_PER_SEC", "0.5")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTPClientTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.InDelta(t, 0.5, cfg.BulkRatePerSec, 1e-9)
	assert.False(t, cfg.LogCompress)

	cc := cfg.ClientConfig()
	assert.Equal(t, 1500*time.Millisecond, cc.Timeout)

	c, err := cfg.NewClient()
	require.NoError(t, err)
	assert.Equal(t, client.Version("1.34"), c.APIVersion())
	assert.Equal(t, "https://xmldata.qrz.com/xml/1.34/", c.Endpoint())
}

func TestNewClient_Errors(t *testing.T) {
	cfg := &Config{Username: "AA7BQ", Password: "secret", APIVersion: "latest"}
	_, err := cfg.NewClient()
	assert.ErrorIs(t, err, client.ErrInvalidInput)

	cfg = &Config{APIVersion: "current"}
	_, err = cfg.NewClient()
	assert.ErrorIs(t, err, client.ErrMissingCredentials)
}
