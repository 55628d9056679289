package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CatalogDir string
	CachePath  string

	// Place-search configuration. An empty key is a valid "no-key" mode.
	PlacesAPIKey       string
	PlacesBaseURL      string
	PlacesTimeout      time.Duration
	PlacesRateInterval time.Duration
	PlacesSearchRadius int

	// Status event publishing; disabled when no brokers are set.
	KafkaBrokers     []string
	KafkaStatusTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	placesTimeout, err := parsePositiveDuration("PLACES_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	rateInterval, err := parsePositiveDuration("PLACES_RATE_INTERVAL", "100ms")
	if err != nil {
		return nil, err
	}

	radius, err := strconv.Atoi(sharedcfg.EnvOrDefault("PLACES_SEARCH_RADIUS", "5000"))
	if err != nil || radius <= 0 || radius > 50000 {
		return nil, errors.New("invalid PLACES_SEARCH_RADIUS: must be 1-50000 metres")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogDir: sharedcfg.EnvOrDefault("CATALOG_DIR", "data/catalog"),
		CachePath:  sharedcfg.EnvOrDefault("CACHE_PATH", "data/open_status_cache.json"),

		PlacesAPIKey:       strings.TrimSpace(os.Getenv("PLACES_API_KEY")),
		PlacesBaseURL:      strings.TrimRight(sharedcfg.EnvOrDefault("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"), "/"),
		PlacesTimeout:      placesTimeout,
		PlacesRateInterval: rateInterval,
		PlacesSearchRadius: radius,

		KafkaBrokers:     sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaStatusTopic: sharedcfg.EnvOrDefault("KAFKA_STATUS_TOPIC", "resource-status"),
	}

	if cfg.CatalogDir == "" {
		return nil, errors.New("CATALOG_DIR is required")
	}
	if cfg.CachePath == "" {
		return nil, errors.New("CACHE_PATH is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaStatusTopic == "" {
		return nil, errors.New("KAFKA_STATUS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether status events should be written to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
