package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlacesKey = "AIza-test-key"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/catalog", cfg.CatalogDir)
	assert.Equal(t, "data/open_status_cache.json", cfg.CachePath)
	assert.Empty(t, cfg.PlacesAPIKey)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/place", cfg.PlacesBaseURL)
	assert.Equal(t, 5*time.Second, cfg.PlacesTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PlacesRateInterval)
	assert.Equal(t, 5000, cfg.PlacesSearchRadius)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "resource-status", cfg.KafkaStatusTopic)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CATALOG_DIR", "/srv/catalog")
	t.Setenv("CACHE_PATH", "/var/lib/locator/cache.json")
	t.Setenv("PLACES_API_KEY", testPlacesKey)
	t.Setenv("PLACES_BASE_URL", "http://localhost:9999/place/")
	t.Setenv("PLACES_TIMEOUT", "2s")
	t.Setenv("PLACES_RATE_INTERVAL", "250ms")
	t.Setenv("PLACES_SEARCH_RADIUS", "8000")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_STATUS_TOPIC", "status-events")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/catalog", cfg.CatalogDir)
	assert.Equal(t, "/var/lib/locator/cache.json", cfg.CachePath)
	assert.Equal(t, testPlacesKey, cfg.PlacesAPIKey)
	assert.Equal(t, "http://localhost:9999/place", cfg.PlacesBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PlacesTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PlacesRateInterval)
	assert.Equal(t, 8000, cfg.PlacesSearchRadius)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "status-events", cfg.KafkaStatusTopic)
	assert.True(t, cfg.PublishEnabled())
}

func TestLoad_BlankKeyIsNoKey(t *testing.T) {
	t.Setenv("PLACES_API_KEY", "   ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.PlacesAPIKey)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidPlacesTimeout(t *testing.T) {
	t.Setenv("PLACES_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLACES_TIMEOUT")
}

func TestLoad_NegativePlacesTimeout(t *testing.T) {
	t.Setenv("PLACES_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLACES_TIMEOUT")
}

func TestLoad_InvalidRateInterval(t *testing.T) {
	t.Setenv("PLACES_RATE_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLACES_RATE_INTERVAL")
}

func TestLoad_InvalidSearchRadius(t *testing.T) {
	for _, v := range []string{"0", "-5", "abc", "60000"} {
		t.Setenv("PLACES_SEARCH_RADIUS", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "PLACES_SEARCH_RADIUS")
	}
}

func TestLoad_BlankBrokersDisablePublishing(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_BrokersTrimmed(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:1 ,,b:2,")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishEnabled())
}
