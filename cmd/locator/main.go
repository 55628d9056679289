package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/crisis-locator/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crisis-locator/internal/adapter/kafka"
	"github.com/couchcryptid/crisis-locator/internal/adapter/places"
	"github.com/couchcryptid/crisis-locator/internal/cache"
	"github.com/couchcryptid/crisis-locator/internal/catalog"
	"github.com/couchcryptid/crisis-locator/internal/config"
	"github.com/couchcryptid/crisis-locator/internal/observability"
	"github.com/couchcryptid/crisis-locator/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	lookup := places.NewClient(places.Options{
		APIKey:       cfg.PlacesAPIKey,
		BaseURL:      cfg.PlacesBaseURL,
		Timeout:      cfg.PlacesTimeout,
		RateInterval: cfg.PlacesRateInterval,
		SearchRadius: cfg.PlacesSearchRadius,
	}, logger, metrics)
	if lookup.KeyPresent() {
		metrics.LookupEnabled.Set(1)
		logger.Info("live open-status lookups enabled", "timeout", cfg.PlacesTimeout, "rate_interval", cfg.PlacesRateInterval)
	} else {
		logger.Warn("PLACES_API_KEY not set, serving cached and static statuses only")
	}

	// Status events are optional; a nil interface disables them.
	var publisher pipeline.StatusPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.PublishEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("status publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaStatusTopic)
	}

	source := catalog.NewSource(cfg.CatalogDir, logger)
	store := cache.NewStore(cfg.CachePath, logger, metrics)
	p := pipeline.New(source, lookup, store, publisher, logger, metrics, cfg.PlacesTimeout)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if kafkaPublisher != nil {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
